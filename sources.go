/*
Copyright © 2018 the OceanBox authors.
This file is part of OceanBox.

OceanBox is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

OceanBox is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with OceanBox.  If not, see <http://www.gnu.org/licenses/>.
*/

package oceanbox

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/cenkalti/backoff"
	"github.com/ctessum/requestcache"
)

// SecondsPerYear converts calendar years to model seconds.
const SecondsPerYear = 365.25 * 24 * 3600

// ConstantSource returns a source history with fixed unit forcing scaled by
// the per-boundary-box ratios r, as used for steady tracers.
func ConstantSource(r []float64) SourceFunc {
	vals := append([]float64{}, r...)
	return func(t float64) []float64 {
		o := make([]float64, len(vals))
		copy(o, vals)
		return o
	}
}

// A History is a tabulated record of an atmospheric boundary value by
// calendar year, such as a CFC or iodine-129 surface-water history.
type History struct {
	Years  []float64 // decimal calendar years, ascending
	Values []float64
}

// NewHistory creates a history from tabulated years and values.
func NewHistory(years, values []float64) (*History, error) {
	if len(years) != len(values) {
		return nil, fmt.Errorf("oceanbox: history has %d years but %d values", len(years), len(values))
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("oceanbox: empty history")
	}
	if !sort.Float64sAreSorted(years) {
		return nil, fmt.Errorf("oceanbox: history years must be ascending")
	}
	return &History{
		Years:  append([]float64{}, years...),
		Values: append([]float64{}, values...),
	}, nil
}

// At returns the history value at the given decimal year, interpolating
// linearly between tabulated years and clamping outside the record.
func (h *History) At(year float64) float64 {
	n := len(h.Years)
	if year <= h.Years[0] {
		return h.Values[0]
	}
	if year >= h.Years[n-1] {
		return h.Values[n-1]
	}
	i := sort.SearchFloat64s(h.Years, year)
	frac := (year - h.Years[i-1]) / (h.Years[i] - h.Years[i-1])
	return h.Values[i-1] + frac*(h.Values[i]-h.Values[i-1])
}

// Source adapts the history to the propagator's time base: model time zero
// corresponds to startYear, and the history value is scaled by the
// per-boundary-box ratios r.
func (h *History) Source(startYear float64, r []float64) SourceFunc {
	ratios := append([]float64{}, r...)
	return func(t float64) []float64 {
		v := h.At(startYear + t/SecondsPerYear)
		o := make([]float64, len(ratios))
		for i, rr := range ratios {
			o[i] = rr * v
		}
		return o
	}
}

var (
	historyCacheOnce sync.Once
	historyCache     *requestcache.Cache
	historyCacheDir  string
)

// FetchHistory downloads a tabulated source history from url and parses it
// as CSV with year,value records (a non-numeric header row is skipped).
// Results are cached in memory and, when cacheDir is non-empty, on disk, so
// repeated runs do not refetch. The download is retried with exponential
// backoff; nothing inside the integration core retries.
func FetchHistory(ctx context.Context, url, cacheDir string) (*History, error) {
	historyCacheOnce.Do(func() {
		historyCacheDir = cacheDir
		cfs := []requestcache.CacheFunc{requestcache.Deduplicate(), requestcache.Memory(10)}
		if cacheDir != "" {
			cfs = append(cfs, requestcache.Disk(cacheDir, marshalHistory, unmarshalHistory))
		}
		historyCache = requestcache.NewCache(downloadHistory, runtime.GOMAXPROCS(-1), cfs...)
	})
	if cacheDir != historyCacheDir {
		return nil, fmt.Errorf("oceanbox: history cache already initialized with directory %q", historyCacheDir)
	}
	r := historyCache.NewRequest(ctx, url, url)
	h, err := r.Result()
	if err != nil {
		return nil, err
	}
	return h.(*History), nil
}

func downloadHistory(ctx context.Context, req interface{}) (interface{}, error) {
	url := req.(string)
	var body []byte
	get := func() error {
		resp, err := http.Get(url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %s", resp.Status)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(get, b); err != nil {
		return nil, fmt.Errorf("oceanbox: downloading %v: %v", url, err)
	}
	return parseHistoryCSV(bytes.NewReader(body))
}

// ReadHistory parses a tabulated source history from r in the same CSV
// format FetchHistory downloads: year,value records with an optional
// non-numeric header row.
func ReadHistory(r io.Reader) (*History, error) {
	return parseHistoryCSV(r)
}

// parseHistoryCSV reads year,value records.
func parseHistoryCSV(r io.Reader) (*History, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	var years, values []float64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("oceanbox: parsing history: %v", err)
		}
		y, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			if len(years) == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("oceanbox: parsing history year %q: %v", rec[0], err)
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("oceanbox: parsing history value %q: %v", rec[1], err)
		}
		years = append(years, y)
		values = append(values, v)
	}
	return NewHistory(years, values)
}

func marshalHistory(d interface{}) ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(d.(*History)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func unmarshalHistory(b []byte) (interface{}, error) {
	h := new(History)
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(h); err != nil {
		return nil, err
	}
	return h, nil
}

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
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testHistory(t *testing.T) *History {
	t.Helper()
	h, err := NewHistory(
		[]float64{1950, 1960, 1980, 2000},
		[]float64{0, 10, 50, 100})
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestHistoryAt(t *testing.T) {
	h := testHistory(t)
	cases := []struct {
		year, want float64
	}{
		{1900, 0},    // clamped below the record
		{1950, 0},    // first tabulated year
		{1955, 5},    // interpolated
		{1970, 30},   // interpolated across unequal spacing
		{2000, 100},  // last tabulated year
		{2050, 100},  // clamped above the record
		{1990, 75},   // interpolated
	}
	for _, c := range cases {
		if got := h.At(c.year); absDifferent(got, c.want, testTolerance) {
			t.Errorf("At(%g) = %g, want %g", c.year, got, c.want)
		}
	}
}

func TestNewHistoryValidation(t *testing.T) {
	if _, err := NewHistory([]float64{1950, 1960}, []float64{1}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := NewHistory(nil, nil); err == nil {
		t.Error("expected error for empty history")
	}
	if _, err := NewHistory([]float64{1960, 1950}, []float64{1, 2}); err == nil {
		t.Error("expected error for descending years")
	}
}

func TestHistorySource(t *testing.T) {
	h := testHistory(t)
	src := h.Source(1950, []float64{1.0, 0.3})
	got := src(20 * SecondsPerYear) // calendar year 1970
	want := []float64{30, 9}
	if len(got) != len(want) {
		t.Fatalf("source returned %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if absDifferent(got[i], want[i], testTolerance) {
			t.Errorf("source[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestConstantSource(t *testing.T) {
	src := ConstantSource([]float64{0.9, 0.97})
	a := src(0)
	a[0] = -1 // callers may scribble on the returned slice
	b := src(1e9)
	if b[0] != 0.9 || b[1] != 0.97 {
		t.Errorf("constant source = %v, want [0.9 0.97]", b)
	}
}

func TestParseHistoryCSV(t *testing.T) {
	in := strings.NewReader("year, pCFC-11\n1950, 0\n1960, 10\n1980, 50\n")
	h, err := parseHistoryCSV(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Years) != 3 {
		t.Fatalf("parsed %d records, want 3", len(h.Years))
	}
	if h.Years[1] != 1960 || h.Values[1] != 10 {
		t.Errorf("record 1 = (%g, %g), want (1960, 10)", h.Years[1], h.Values[1])
	}
}

func TestParseHistoryCSVErrors(t *testing.T) {
	for _, in := range []string{
		"1950, 0\nbad, 10\n",      // non-numeric year after data begins
		"1950, zero\n",            // non-numeric value
		"1950, 0, extra\n",        // wrong field count
		"year, value\n",           // header only, no data
	} {
		if _, err := parseHistoryCSV(strings.NewReader(in)); err == nil {
			t.Errorf("input %q: expected error", in)
		}
	}
}

func TestFetchHistory(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("year, value\n1950, 0\n2000, 100\n"))
	}))
	defer srv.Close()

	ctx := context.Background()
	h, err := FetchHistory(ctx, srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := h.At(1975); absDifferent(got, 50, testTolerance) {
		t.Errorf("At(1975) = %g, want 50", got)
	}

	// Second fetch of the same URL is served from the cache.
	if _, err := FetchHistory(ctx, srv.URL, ""); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

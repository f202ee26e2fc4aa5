package pagination

import (
	"net/url"
	"testing"
)

func testConfig() Config {
	return Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    PageRequest
		expected PageRequest
	}{
		{"zero values", PageRequest{}, PageRequest{Page: 1, PageSize: 20}},
		{"negative page", PageRequest{Page: -5, PageSize: 10}, PageRequest{Page: 1, PageSize: 10}},
		{"oversized page size", PageRequest{Page: 2, PageSize: 500}, PageRequest{Page: 2, PageSize: 100}},
		{"valid values", PageRequest{Page: 3, PageSize: 50}, PageRequest{Page: 3, PageSize: 50}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.input
			req.Normalize(testConfig())
			if req != tc.expected {
				t.Errorf("got %+v, expected %+v", req, tc.expected)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page     int
		pageSize int
		expected int
	}{
		{1, 20, 0},
		{2, 20, 20},
		{5, 10, 40},
	}

	for _, tc := range tests {
		req := PageRequest{Page: tc.page, PageSize: tc.pageSize}
		if got := req.Offset(); got != tc.expected {
			t.Errorf("Offset() for page %d size %d: got %d, expected %d", tc.page, tc.pageSize, got, tc.expected)
		}
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "3")
	values.Set("page_size", "25")

	req := PageRequestFromQuery(values, testConfig())
	if req.Page != 3 || req.PageSize != 25 {
		t.Errorf("got %+v, expected page 3 size 25", req)
	}

	req = PageRequestFromQuery(url.Values{}, testConfig())
	if req.Page != 1 || req.PageSize != 20 {
		t.Errorf("empty query: got %+v, expected defaults", req)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		pageSize   int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"empty", 0, 1, 20, 1, false, false},
		{"single page", 15, 1, 20, 1, false, false},
		{"first of many", 45, 1, 20, 3, true, false},
		{"middle page", 45, 2, 20, 3, true, true},
		{"last page", 45, 3, 20, 3, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := NewPageResult([]int{}, tc.total, tc.page, tc.pageSize)
			if result.TotalPages != tc.totalPages {
				t.Errorf("TotalPages: got %d, expected %d", result.TotalPages, tc.totalPages)
			}
			if result.HasNext != tc.hasNext {
				t.Errorf("HasNext: got %v, expected %v", result.HasNext, tc.hasNext)
			}
			if result.HasPrev != tc.hasPrev {
				t.Errorf("HasPrev: got %v, expected %v", result.HasPrev, tc.hasPrev)
			}
		})
	}
}

func TestNewPageResultNilData(t *testing.T) {
	result := NewPageResult[string](nil, 0, 1, 20)
	if result.Data == nil {
		t.Error("Data should be an empty slice, not nil")
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantLen   int
		wantFirst int
	}{
		{"first page", 1, 20, 20, 0},
		{"middle page", 2, 20, 20, 20},
		{"partial last page", 3, 20, 5, 40},
		{"past the end", 10, 20, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Paginate(items, PageRequest{Page: tc.page, PageSize: tc.pageSize})
			if len(result.Data) != tc.wantLen {
				t.Fatalf("got %d items, expected %d", len(result.Data), tc.wantLen)
			}
			if tc.wantLen > 0 && result.Data[0] != tc.wantFirst {
				t.Errorf("first item: got %d, expected %d", result.Data[0], tc.wantFirst)
			}
			if result.Total != 45 {
				t.Errorf("Total: got %d, expected 45", result.Total)
			}
		})
	}
}

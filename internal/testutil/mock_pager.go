// Package testutil provides testing utilities for the page fetcher.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/Sternrassler/pagefetch/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockResponse overrides the response served for one page.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockPager is an httptest server that serves a paginated item collection
// as GET /?page=<n>.
type MockPager struct {
	server *httptest.Server

	mu         sync.Mutex
	pageSizes  []int
	totalItems int
	overrides  map[int]MockResponse
	delay      func(page int) time.Duration

	// Tracking
	requestCount      int
	pageRequests      map[int]int
	inFlight          int
	maxInFlight       int
	lastRequestHeader http.Header
}

// NewMockPager creates a mock endpoint with one page per entry in pageSizes.
// totalItems is reported as the sum of the page sizes.
func NewMockPager(pageSizes ...int) *MockPager {
	mock := &MockPager{
		pageSizes:    pageSizes,
		overrides:    make(map[int]MockResponse),
		pageRequests: make(map[int]int),
	}
	for _, size := range pageSizes {
		mock.totalItems += size
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL.
func (m *MockPager) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPager) Close() {
	m.server.Close()
}

// SetTotalItems overrides the totalItems value reported on every page.
func (m *MockPager) SetTotalItems(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalItems = n
}

// SetResponse serves resp instead of the generated page for the given index.
func (m *MockPager) SetResponse(page int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[page] = resp
}

// SetDelay sets a per-page latency applied before the page is written.
func (m *MockPager) SetDelay(delay func(page int) time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = delay
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockPager) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount
}

// PageRequests returns how often the given page was requested.
func (m *MockPager) PageRequests(page int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageRequests[page]
}

// MaxInFlight returns the highest number of concurrently served requests.
func (m *MockPager) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockPager) LastRequestHeader() http.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequestHeader
}

func (m *MockPager) handle(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))

	m.mu.Lock()
	m.requestCount++
	m.lastRequestHeader = r.Header.Clone()
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	if err == nil {
		m.pageRequests[page]++
	}
	override, hasOverride := m.overrides[page]
	delay := m.delay
	totalItems := m.totalItems
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if err != nil {
		http.Error(w, `{"error": "invalid page"}`, http.StatusBadRequest)
		return
	}

	if delay != nil {
		time.Sleep(delay(page))
	}

	if hasOverride {
		writeOverride(w, override)
		return
	}

	if page < 0 || page >= len(m.pageSizes) {
		http.Error(w, `{"error": "page not found"}`, http.StatusNotFound)
		return
	}

	body, err := json.Marshal(m.buildPage(page, totalItems))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (m *MockPager) buildPage(page, totalItems int) pagination.Page[pagination.Item] {
	items := make([]pagination.Item, m.pageSizes[page])
	for i := range items {
		items[i] = NewItem(page, i)
	}
	return pagination.Page[pagination.Item]{
		Items:      items,
		PageNumber: page,
		TotalPages: len(m.pageSizes),
		TotalItems: totalItems,
		IsLastPage: page == len(m.pageSizes)-1,
	}
}

func writeOverride(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewItem returns the deterministic item at position index of page.
func NewItem(page, index int) pagination.Item {
	name := fmt.Sprintf("item-%d-%d", page, index)
	return pagination.Item{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Name:        name,
		Description: fmt.Sprintf("Item %d on page %d", index, page),
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(page*100+index) * time.Minute),
		Price:       decimal.New(int64(page*100+index)*125, -2),
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewMalformedResponse creates a 200 response whose body is not a page.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"items": "not-a-list"`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

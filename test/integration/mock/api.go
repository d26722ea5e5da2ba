package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// ApiMock is a fake third-party HTTP API. It records every request and answers
// with the response configured for the method and path.
type ApiMock struct {
	mu                    sync.Mutex
	headersReceived       map[string]map[int]map[string]string
	requestsReceived      map[string]map[int]map[string]any
	responseMap           map[string]map[int]any
	defaultResponseMap    map[string]any
	responseStatus        map[string]map[int]int
	defaultResponseStatus map[string]int
	server                *httptest.Server
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		headersReceived:       map[string]map[int]map[string]string{},
		requestsReceived:      map[string]map[int]map[string]any{},
		responseMap:           map[string]map[int]any{},
		defaultResponseMap:    map[string]any{},
		responseStatus:        map[string]map[int]int{},
		defaultResponseStatus: map[string]int{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)
	if request == nil {
		request = map[string]any{}
	}

	a.mu.Lock()
	if a.requestsReceived[key] == nil {
		a.requestsReceived[key] = map[int]map[string]any{}
		a.headersReceived[key] = map[int]map[string]string{}
	}
	index := len(a.requestsReceived[key])
	a.requestsReceived[key][index] = request
	a.headersReceived[key][index] = map[string]string{}
	for name, value := range r.Header {
		a.headersReceived[key][index][name] = value[0]
	}
	status := a.getResponseStatus(key, index)
	response := a.getResponseBody(key, index)
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// SetResponse configures the answer to the index-th request to method and
// path. An index of -1 sets the answer for every request without its own.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaultResponseStatus[key] = status
		a.defaultResponseMap[key] = response
		return
	}
	if a.responseMap[key] == nil {
		a.responseMap[key] = map[int]any{}
		a.responseStatus[key] = map[int]int{}
	}
	a.responseMap[key][index] = response
	a.responseStatus[key][index] = status
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requestsReceived[method+path][index]
}

func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.headersReceived[method+path][index]
}

// RequestCount returns how many requests were sent to method and path.
func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requestsReceived[method+path])
}

// ClearResponses forgets requests and responses whose key starts with method
// and path. Empty arguments clear everything.
func (a *ApiMock) ClearResponses(method, path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prefix := method + path
	for key := range a.requestsReceived {
		if strings.HasPrefix(key, prefix) {
			delete(a.requestsReceived, key)
			delete(a.headersReceived, key)
		}
	}
	for key := range a.responseMap {
		if strings.HasPrefix(key, prefix) {
			delete(a.responseMap, key)
			delete(a.responseStatus, key)
		}
	}
	for key := range a.defaultResponseMap {
		if strings.HasPrefix(key, prefix) {
			delete(a.defaultResponseMap, key)
			delete(a.defaultResponseStatus, key)
		}
	}
}

func (a *ApiMock) getResponseBody(key string, index int) any {
	if response, ok := a.responseMap[key][index]; ok && response != nil {
		return response
	}
	if response, ok := a.defaultResponseMap[key]; ok && response != nil {
		return response
	}
	return map[string]any{}
}

func (a *ApiMock) getResponseStatus(key string, index int) int {
	if status, ok := a.responseStatus[key][index]; ok && status != 0 {
		return status
	}
	if status, ok := a.defaultResponseStatus[key]; ok && status != 0 {
		return status
	}
	// 200 keeps WriteHeader(0) from panicking
	return http.StatusOK
}

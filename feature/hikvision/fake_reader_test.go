package hikvision

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"
)

const (
	fakeRealm = "IP Camera(E1234)"
	fakeNonce = "4e6a4d354f5749324e6a413659544a6b5a6d4d7a"
)

var digestParam = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|([^,\s]*))`)

// fakeReader is an in-memory ISAPI reader.
type fakeReader struct {
	t *testing.T

	mu       sync.Mutex
	users    map[string]UserInfo
	puts     []UserInfo
	searches []SearchCond

	failPut    bool
	failSearch bool
	rejectPut  bool

	// digest makes the reader answer unauthenticated requests with a
	// Digest challenge and accept only valid digest credentials.
	digest     bool
	username   string
	password   string
	challenges int
	denied     int
}

// newDigestReader returns a fake reader that requires digest authentication
// for the account of testConfig.
func newDigestReader(t *testing.T, keys ...string) (*fakeReader, *httptest.Server) {
	r, srv := newFakeReader(t, keys...)
	cfg := testConfig()
	r.digest = true
	r.username = cfg.Username
	r.password = cfg.Password
	return r, srv
}

func newFakeReader(t *testing.T, keys ...string) (*fakeReader, *httptest.Server) {
	r := &fakeReader{t: t, users: map[string]UserInfo{}}
	for _, k := range keys {
		r.users[k] = UserInfo{EmployeeNo: k}
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return r, srv
}

func (r *fakeReader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	body, _ := io.ReadAll(req.Body)

	if r.digest && !r.authorized(req) {
		if strings.HasPrefix(req.Header.Get("Authorization"), "Digest ") {
			r.denied++
		} else {
			r.challenges++
		}
		w.Header().Set("WWW-Authenticate", fmt.Sprintf(
			`Digest qop="auth", realm=%q, nonce=%q, stale="FALSE", algorithm=MD5`,
			fakeRealm, fakeNonce,
		))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch {
	case req.Method == http.MethodPut && req.URL.Path == "/ISAPI/AccessControl/UserInfo/SetUp":
		if r.failPut {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(ResponseStatus{StatusCode: 6, StatusString: "Invalid Content", SubStatusCode: "badJsonContent"})
			return
		}
		if r.rejectPut {
			_ = json.NewEncoder(w).Encode(ResponseStatus{StatusCode: 4, StatusString: "Invalid Operation", SubStatusCode: "deviceUserAlreadyExist"})
			return
		}
		var payload UserInfoRequest
		if err := json.Unmarshal(body, &payload); err != nil {
			r.t.Errorf("invalid SetUp body: %v", err)
		}
		r.puts = append(r.puts, payload.UserInfo)
		r.users[payload.UserInfo.EmployeeNo] = payload.UserInfo
		_ = json.NewEncoder(w).Encode(ResponseStatus{StatusCode: 1, StatusString: "OK", SubStatusCode: "ok"})

	case req.Method == http.MethodPost && req.URL.Path == "/ISAPI/AccessControl/UserInfo/Search":
		if r.failSearch {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("busy"))
			return
		}
		var search SearchRequest
		if err := json.Unmarshal(body, &search); err != nil {
			r.t.Errorf("invalid Search body: %v", err)
		}
		cond := search.UserInfoSearchCond
		r.searches = append(r.searches, cond)

		keys := make([]string, 0, len(r.users))
		for k := range r.users {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result := SearchResult{SearchID: cond.SearchID, TotalMatches: len(keys)}
		if len(keys) == 0 {
			result.ResponseStatusStrg = SearchStatusNoMatch
		} else {
			end := cond.SearchResultPosition + cond.MaxResults
			if end > len(keys) {
				end = len(keys)
			}
			for _, k := range keys[cond.SearchResultPosition:end] {
				result.UserInfo = append(result.UserInfo, r.users[k])
			}
			result.NumOfMatches = len(result.UserInfo)
			result.ResponseStatusStrg = SearchStatusOK
			if end < len(keys) {
				result.ResponseStatusStrg = SearchStatusMore
			}
		}
		_ = json.NewEncoder(w).Encode(SearchResponse{UserInfoSearch: result})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// authorized checks the request's digest credentials against the reader account.
func (r *fakeReader) authorized(req *http.Request) bool {
	auth, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Digest ")
	if !ok {
		return false
	}
	params := map[string]string{}
	for _, m := range digestParam.FindAllStringSubmatch(auth, -1) {
		params[m[1]] = m[2] + m[3]
	}
	if params["username"] != r.username || params["realm"] != fakeRealm || params["nonce"] != fakeNonce {
		return false
	}
	if params["uri"] != req.URL.RequestURI() || params["qop"] != "auth" {
		return false
	}

	ha1 := md5hex(r.username + ":" + fakeRealm + ":" + r.password)
	ha2 := md5hex(req.Method + ":" + params["uri"])
	want := md5hex(strings.Join([]string{ha1, fakeNonce, params["nc"], params["cnonce"], "auth", ha2}, ":"))
	return params["response"] == want
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (r *fakeReader) putKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.puts))
	for _, u := range r.puts {
		keys = append(keys, u.EmployeeNo)
	}
	return keys
}

func (r *fakeReader) delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, key)
}

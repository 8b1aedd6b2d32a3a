package hikvision

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hikvision-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	return Config{Username: "admin", Password: "pw", TimeoutSeconds: 5, PageSize: 2}
}

func sampleRecord(key string) reconcile.DeviceRecord {
	return reconcile.DeviceRecord{
		EmployeeNo: key,
		Name:       "Member " + key,
		UserType:   reconcile.DefaultUserType,
		Valid: reconcile.ValidityWindow{
			Enable:    true,
			BeginTime: reconcile.DefaultBeginTime,
			EndTime:   reconcile.DefaultEndTime,
		},
	}
}

func TestDevice_Upsert(t *testing.T) {
	reader, srv := newFakeReader(t)
	d := NewDevice(srv.URL+"/", testConfig(), zap.NewNop())
	assert.Equal(t, srv.URL, d.URL())

	require.NoError(t, d.Upsert(context.Background(), sampleRecord("12345")))

	require.Len(t, reader.puts, 1)
	got := reader.puts[0]
	assert.Equal(t, "12345", got.EmployeeNo)
	assert.Equal(t, "Member 12345", got.Name)
	assert.Equal(t, "normal", got.UserType)
	require.NotNil(t, got.Valid)
	assert.True(t, got.Valid.Enable)
	assert.Equal(t, "2026-01-01T23:59:59", got.Valid.BeginTime)
	assert.Equal(t, "2030-01-01T23:59:59", got.Valid.EndTime)
}

func TestDevice_UpsertDigestChallenge(t *testing.T) {
	reader, srv := newDigestReader(t)
	d := NewDevice(srv.URL, testConfig(), zap.NewNop())

	require.NoError(t, d.Upsert(context.Background(), sampleRecord("12345")))
	require.NoError(t, d.Upsert(context.Background(), sampleRecord("67890")))

	// The first request is challenged and replayed; the second reuses the challenge
	assert.Equal(t, 1, reader.challenges)
	assert.Zero(t, reader.denied)
	require.Len(t, reader.puts, 2)

	got := reader.puts[0]
	assert.Equal(t, "12345", got.EmployeeNo)
	assert.Equal(t, "Member 12345", got.Name)
	assert.Equal(t, "normal", got.UserType)
	require.NotNil(t, got.Valid)
	assert.True(t, got.Valid.Enable)
	assert.Equal(t, "2026-01-01T23:59:59", got.Valid.BeginTime)
	assert.Equal(t, "2030-01-01T23:59:59", got.Valid.EndTime)
	assert.Equal(t, "67890", reader.puts[1].EmployeeNo)
}

func TestDevice_UpsertErrors(t *testing.T) {
	t.Run("HTTPError", func(t *testing.T) {
		reader, srv := newFakeReader(t)
		reader.failPut = true

		err := NewDevice(srv.URL, testConfig(), zap.NewNop()).Upsert(context.Background(), sampleRecord("1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 500")
		assert.Contains(t, err.Error(), "badJsonContent")
	})

	t.Run("StatusCodeRejected", func(t *testing.T) {
		reader, srv := newFakeReader(t)
		reader.rejectPut = true

		err := NewDevice(srv.URL, testConfig(), zap.NewNop()).Upsert(context.Background(), sampleRecord("1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 4")
		assert.Contains(t, err.Error(), "deviceUserAlreadyExist")
	})

	t.Run("Unauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		err := NewDevice(srv.URL, testConfig(), zap.NewNop()).Upsert(context.Background(), sampleRecord("1"))
		assert.Error(t, err)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		reader, srv := newDigestReader(t)
		cfg := testConfig()
		cfg.Password = "wrong"

		err := NewDevice(srv.URL, cfg, zap.NewNop()).Upsert(context.Background(), sampleRecord("1"))
		assert.ErrorContains(t, err, "HTTP 401")
		assert.Equal(t, 1, reader.challenges)
		assert.Equal(t, 1, reader.denied)
		assert.Empty(t, reader.puts)
	})

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := NewDevice(url, testConfig(), zap.NewNop()).Upsert(context.Background(), sampleRecord("1"))
		assert.ErrorContains(t, err, "request failed")
	})
}

func TestDevice_ListIdentitiesPages(t *testing.T) {
	keys := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		keys = append(keys, fmt.Sprintf("%d", i))
	}
	reader, srv := newFakeReader(t, keys...)

	roster, err := NewDevice(srv.URL, testConfig(), zap.NewNop()).ListIdentities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reconcile.NewRoster(keys...), roster)

	// Page size 2 over 5 users: positions 0, 2, 4 with a stable search id
	require.Len(t, reader.searches, 3)
	assert.Equal(t, 0, reader.searches[0].SearchResultPosition)
	assert.Equal(t, 2, reader.searches[1].SearchResultPosition)
	assert.Equal(t, 4, reader.searches[2].SearchResultPosition)
	assert.Equal(t, reader.searches[0].SearchID, reader.searches[2].SearchID)
	assert.Equal(t, 2, reader.searches[0].MaxResults)
}

func TestDevice_ListIdentitiesDigestChallenge(t *testing.T) {
	reader, srv := newDigestReader(t, "1", "2", "3")

	roster, err := NewDevice(srv.URL, testConfig(), zap.NewNop()).ListIdentities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reconcile.NewRoster("1", "2", "3"), roster)

	assert.Equal(t, 1, reader.challenges)
	assert.Zero(t, reader.denied)
	require.Len(t, reader.searches, 2)
	assert.NotEmpty(t, reader.searches[0].SearchID)
	assert.Equal(t, reader.searches[0].SearchID, reader.searches[1].SearchID)
	assert.Equal(t, 0, reader.searches[0].SearchResultPosition)
	assert.Equal(t, 2, reader.searches[0].MaxResults)
	assert.Equal(t, 2, reader.searches[1].SearchResultPosition)
}

func TestDevice_ListIdentitiesEmpty(t *testing.T) {
	_, srv := newFakeReader(t)

	roster, err := NewDevice(srv.URL, testConfig(), zap.NewNop()).ListIdentities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, roster)
}

func TestDevice_ListIdentitiesError(t *testing.T) {
	reader, srv := newFakeReader(t, "1")
	reader.failSearch = true

	_, err := NewDevice(srv.URL, testConfig(), zap.NewNop()).ListIdentities(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503: busy")
}

func TestDevice_ListIdentitiesInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<xml/>"))
	}))
	defer srv.Close()

	_, err := NewDevice(srv.URL, testConfig(), zap.NewNop()).ListIdentities(context.Background())
	assert.ErrorContains(t, err, "invalid search response")
}

func TestDevice_CancelledContext(t *testing.T) {
	_, srv := newFakeReader(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDevice(srv.URL, testConfig(), zap.NewNop()).Upsert(ctx, sampleRecord("1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, checkStatus(200, []byte(`{"statusCode":1,"statusString":"OK"}`)))
	assert.NoError(t, checkStatus(200, nil))
	assert.NoError(t, checkStatus(200, []byte(`{"UserInfoSearch":{}}`)))
	assert.Error(t, checkStatus(200, []byte(`{"statusCode":4,"statusString":"Invalid Operation"}`)))
	assert.EqualError(t, checkStatus(404, []byte("not found")), "HTTP 404: not found")
}

func TestConfig_Readers(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{"ReaderURLsWin", Config{BaseURL: "http://base", ReaderURLs: []string{"http://a/", " http://b "}}, []string{"http://a", "http://b"}},
		{"FallbackToBase", Config{BaseURL: "http://base/", ReaderURLs: []string{""}}, []string{"http://base"}},
		{"None", Config{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Readers())
		})
	}
}

package hikvision

import "hikvision-sync/core/reconcile"

const (
	setUpPath  = "/ISAPI/AccessControl/UserInfo/SetUp?format=json"
	searchPath = "/ISAPI/AccessControl/UserInfo/Search?format=json"
)

// Search status strings of UserInfoSearch.responseStatusStrg.
const (
	SearchStatusOK      = "OK"
	SearchStatusMore    = "MORE"
	SearchStatusNoMatch = "NO MATCH"
)

// UserInfoRequest is the SetUp payload.
type UserInfoRequest struct {
	UserInfo UserInfo `json:"UserInfo"`
}

// UserInfo is a reader user record.
type UserInfo struct {
	EmployeeNo string `json:"employeeNo"`
	Name       string `json:"name,omitempty"`
	UserType   string `json:"userType,omitempty"`
	Valid      *Valid `json:"Valid,omitempty"`
}

// Valid is the reader validity window.
type Valid struct {
	Enable    bool   `json:"enable"`
	BeginTime string `json:"beginTime"`
	EndTime   string `json:"endTime"`
}

// SearchRequest is the roster search payload.
type SearchRequest struct {
	UserInfoSearchCond SearchCond `json:"UserInfoSearchCond"`
}

// SearchCond pages through the reader users.
type SearchCond struct {
	SearchID             string `json:"searchID"`
	SearchResultPosition int    `json:"searchResultPosition"`
	MaxResults           int    `json:"maxResults"`
}

// SearchResponse is the roster search reply.
type SearchResponse struct {
	UserInfoSearch SearchResult `json:"UserInfoSearch"`
}

// SearchResult is one page of reader users.
type SearchResult struct {
	SearchID           string     `json:"searchID"`
	ResponseStatusStrg string     `json:"responseStatusStrg"`
	NumOfMatches       int        `json:"numOfMatches"`
	TotalMatches       int        `json:"totalMatches"`
	UserInfo           []UserInfo `json:"UserInfo"`
}

// ResponseStatus is the generic ISAPI status body.
type ResponseStatus struct {
	RequestURL    string `json:"requestURL"`
	StatusCode    int    `json:"statusCode"`
	StatusString  string `json:"statusString"`
	SubStatusCode string `json:"subStatusCode"`
	ErrorCode     int    `json:"errorCode"`
	ErrorMsg      string `json:"errorMsg"`
}

// OK reports whether the status denotes success. An absent status code counts as success.
func (s ResponseStatus) OK() bool {
	return s.StatusCode == 0 || s.StatusCode == 1
}

func (s ResponseStatus) String() string {
	msg := s.StatusString
	if s.SubStatusCode != "" {
		msg += " (" + s.SubStatusCode + ")"
	}
	if s.ErrorMsg != "" {
		msg += ": " + s.ErrorMsg
	}
	return msg
}

func toUserInfo(rec reconcile.DeviceRecord) UserInfo {
	return UserInfo{
		EmployeeNo: rec.EmployeeNo,
		Name:       rec.Name,
		UserType:   rec.UserType,
		Valid: &Valid{
			Enable:    rec.Valid.Enable,
			BeginTime: rec.Valid.BeginTime,
			EndTime:   rec.Valid.EndTime,
		},
	}
}

// Package hikvision implements the access-control device sink over ISAPI.
//
// Each reader is driven by a Device using HTTP digest authentication:
//
//	PUT  /ISAPI/AccessControl/UserInfo/SetUp?format=json    create or update a user
//	POST /ISAPI/AccessControl/UserInfo/Search?format=json   page through users
//
// A Fleet groups the configured readers. A record is applied only when every reader
// acknowledged it, and the fleet roster is the intersection of all reader rosters so a
// member missing from one reader is pushed again. Requests to a reader are paced with a
// token bucket.
package hikvision

// Package bangumi implements the HTTP client for the bgm.tv API.
//
// # Overview
//
// The client covers the small part of the API that bgmTTY needs: the list of
// subjects the user is watching, per-subject collection records, subject
// lookups, progress updates and keyword search.
//
// # Endpoints
//
//	GET  /user/{uid}/collection?cat=watching     Collection
//	GET  /collection/{id}                        CollectionDetail
//	POST /collection/{id}/update                 UpdateCollectionDetail
//	GET  /subject/{id}?responseGroup=small       Subject
//	POST /subject/{id}/update/watched_eps        UpdateProgress
//	GET  /search/subject/{keywords}              Search
//
// Requests carry the OAuth access token as a bearer header. Write endpoints
// take form-encoded bodies.
//
// # Errors
//
// The API reports some failures with a 200 status and a JSON envelope of the
// form {"code":404,"error":"Not Found"}. Both HTTP errors and such envelopes
// are surfaced as *APIError. IsNotFound matches the codes used for missing
// records; CollectionDetail maps them to a nil record and Search to an empty
// page.
//
// # Testing
//
// Service is the interface consumed by the state layer. Tests substitute a
// fake Service or point a Client at an httptest server through
// ClientOptions.BaseURL.
package bangumi

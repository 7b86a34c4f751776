// Package turknet is a client for the Türk.net address and
// infrastructure-availability service.
//
// The service is a JSON-over-HTTPS API behind the provider's public
// "altyapı sorgulama" web form. Every call is a PUT with a small JSON
// body and every answer is wrapped in a service envelope:
//
//	{"ServiceResult": {"Code": 0, "Message": "..."}, ...payload}
//
// A non-zero Code is reported as *model.ServiceError. All calls except
// GetToken carry the session token in a "Token" header; the token is
// fetched lazily on first use and held by a Session.
package turknet

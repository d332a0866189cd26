package common

// AuthorizationHeaderName is the HTTP header carrying the access token
// as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme prefix, including the trailing space.
const BearerScheme = "Bearer "

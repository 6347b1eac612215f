package common

// SessionTokenHeaderName is the HTTP header used to carry the opaque session
// token on privileged requests.
const SessionTokenHeaderName = "X-Session-Token"

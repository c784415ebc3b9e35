package handlers

// CreateLinkRequest is the request body for creating a short link. Field
// validation is performed by the domain layer so rejections carry the
// documented error kinds; nothing is required at the schema level.
type CreateLinkRequest struct {
	Body struct {
		URL           string `doc:"The URL to shorten"                                     example:"https://example.com/very/long/path" json:"url,omitempty"`
		Slug          string `doc:"Custom slug, 2-10 chars, optional"                      example:"mylink"                             json:"slug,omitempty"`
		Password      string `doc:"Access password, at least 4 chars, optional"            example:"hunter2"                            json:"password,omitempty"`
		ExpireType    string `doc:"One of never, hour, day, week, month, custom"           example:"hour"                               json:"expireType,omitempty"`
		CustomMinutes int    `doc:"Expiry offset in minutes when expireType is custom"     example:"90"                                 json:"customMinutes,omitempty"`
	}
}

// CreateLinkResponse is the response for a successfully created (or
// idempotently matched) short link.
type CreateLinkResponse struct {
	Body struct {
		Slug                string `doc:"The short slug"                             example:"ab12"                        json:"slug"`
		Link                string `doc:"The full short link"                        example:"http://localhost:8888/ab12"  json:"link"`
		IsPasswordProtected bool   `doc:"Whether resolving requires a password"      example:"false"                       json:"isPasswordProtected"`
		ExpireType          string `doc:"The expiry policy applied"                  example:"hour"                        json:"expireType"`
		ExpireTime          string `doc:"Expiry timestamp in display timezone, or Never" example:"2026/03/15 13:00:00"     json:"expireTime"`
	}
}

// ResolveRequest is the request for resolving a short link via GET.
type ResolveRequest struct {
	Slug string `doc:"The short slug" example:"ab12" path:"slug"`
}

// ResolveResponse is the GET resolver's response. The body is HTML for every
// terminal page; successful resolution is a 302 with a Location header.
type ResolveResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Location    string `header:"Location"`
	Body        []byte
}

// VerifyPasswordBody is the optional JSON body for password verification.
type VerifyPasswordBody struct {
	Password string `doc:"Candidate password" example:"hunter2" json:"password,omitempty"`
}

// VerifyPasswordRequest is the POST request carrying a candidate password.
// The password may arrive in the JSON body or the X-Password header; the body
// wins when both are present.
type VerifyPasswordRequest struct {
	Slug      string              `doc:"The short slug" example:"ab12" path:"slug"`
	XPassword string              `doc:"Candidate password (header alternative)" header:"X-Password"`
	Body      *VerifyPasswordBody `required:"false"`
}

// VerifyPasswordResponse returns the redirect target as JSON; the caller
// performs client-side navigation.
type VerifyPasswordResponse struct {
	Body struct {
		RedirectURL string `doc:"The target URL to navigate to" example:"https://example.com/very/long/path" json:"redirectUrl"`
	}
}

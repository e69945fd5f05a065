package entity

// UploadAuthorization is the signed tuple a client presents to the CDN for one direct upload.
type UploadAuthorization struct {
	Signature string `json:"signature"`
	Expire    int64  `json:"expire"`
	Token     string `json:"token"`
	PublicKey string `json:"publicKey"`
}

// Complete reports whether the tuple carries every field the CDN checks.
func (a *UploadAuthorization) Complete() bool {
	return a != nil && a.Signature != "" && a.Expire > 0 && a.Token != ""
}

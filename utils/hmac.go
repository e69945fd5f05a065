package utils

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
)

// BuildUploadStringToSign constructs the string the CDN verifies for a client-side upload.
// Format: TOKEN followed directly by the decimal unix EXPIRE, no separator.
func BuildUploadStringToSign(token string, expire int64) string {
	return token + strconv.FormatInt(expire, 10)
}

// ComputeHMACSHA1 computes an HMAC-SHA1 signature and returns it hex-encoded (40 characters).
// This is the scheme ImageKit uses for upload authentication parameters.
func ComputeHMACSHA1(secretKey, message string) string {
	h := hmac.New(sha1.New, []byte(secretKey))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// SignUpload returns the upload signature for token and expire under privateKey.
func SignUpload(privateKey, token string, expire int64) string {
	return ComputeHMACSHA1(privateKey, BuildUploadStringToSign(token, expire))
}

// VerifyUploadSignature recomputes the signature and compares it in constant time.
func VerifyUploadSignature(privateKey, token string, expire int64, signature string) bool {
	return SecureCompare(SignUpload(privateKey, token, expire), signature)
}

// SecureCompare performs constant-time string comparison.
// This MUST be used when comparing signatures.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

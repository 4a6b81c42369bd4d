package domain

import "time"

// DocumentType enumerates the files a companion uploads for verification.
type DocumentType string

const (
	DocumentVerificationVideo DocumentType = "verification_video"
	DocumentIDCard            DocumentType = "id_card"
	DocumentPassport          DocumentType = "passport"
	DocumentDriversLicense    DocumentType = "drivers_license"
	DocumentSelfie            DocumentType = "selfie"
)

// ParseDocumentType validates a document type string.
func ParseDocumentType(s string) (DocumentType, bool) {
	switch t := DocumentType(s); t {
	case DocumentVerificationVideo, DocumentIDCard, DocumentPassport, DocumentDriversLicense, DocumentSelfie:
		return t, true
	}
	return "", false
}

// IsIdentity reports whether the type counts toward the identity half of the
// required upload set.
func (t DocumentType) IsIdentity() bool {
	switch t {
	case DocumentIDCard, DocumentPassport, DocumentDriversLicense, DocumentSelfie:
		return true
	}
	return false
}

// IsVideo reports whether the type is the verification video.
func (t DocumentType) IsVideo() bool {
	return t == DocumentVerificationVideo
}

// Document is an uploaded verification file.
type Document struct {
	ID               string
	AuthID           string
	CompanionID      string
	Type             DocumentType
	StoragePath      string
	PublicURL        string
	Verified         *bool
	VerificationDate *time.Time
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasRequiredUploads reports whether types contains a verification video and
// at least one identity document.
func HasRequiredUploads(types []DocumentType) bool {
	var video, identity bool
	for _, t := range types {
		video = video || t.IsVideo()
		identity = identity || t.IsIdentity()
	}
	return video && identity
}

package handlers

import (
	"time"

	"companions/internal/domain"
)

type characteristicsDTO struct {
	HeightCM  *int   `json:"height_cm,omitempty" validate:"omitempty,min=120,max=230"`
	Ethnicity string `json:"ethnicity,omitempty" validate:"max=40"`
	HairColor string `json:"hair_color,omitempty" validate:"max=40"`
	EyeColor  string `json:"eye_color,omitempty" validate:"max=40"`
	BodyType  string `json:"body_type,omitempty" validate:"max=40"`
}

type companionDTO struct {
	ID               string             `json:"id"`
	Slug             string             `json:"slug"`
	Name             string             `json:"name"`
	Age              int                `json:"age"`
	City             string             `json:"city"`
	CitySlug         string             `json:"city_slug"`
	Phone            string             `json:"phone,omitempty"`
	Description      string             `json:"description"`
	PricePerHour     int                `json:"price_per_hour"`
	Plan             domain.Plan        `json:"plan"`
	PlanExpiresAt    *time.Time         `json:"plan_expires_at,omitempty"`
	Verified         bool               `json:"verified"`
	VerificationDate *time.Time         `json:"verification_date,omitempty"`
	Suspended        bool               `json:"suspended,omitempty"`
	Characteristics  characteristicsDTO `json:"characteristics"`
	RatingAverage    float64            `json:"rating_average"`
	RatingCount      int                `json:"rating_count"`
	CreatedAt        time.Time          `json:"created_at"`
}

func toCompanionDTO(c domain.Companion, now time.Time) companionDTO {
	ch := c.Characteristics
	return companionDTO{
		ID:               c.ID,
		Slug:             c.Slug,
		Name:             c.Name,
		Age:              c.Age,
		City:             c.City,
		CitySlug:         c.CitySlug,
		Phone:            c.Phone,
		Description:      c.Description,
		PricePerHour:     c.PricePerHour,
		Plan:             c.ActivePlan(now),
		PlanExpiresAt:    c.PlanExpiresAt,
		Verified:         c.Verified,
		VerificationDate: c.VerificationDate,
		Suspended:        c.Suspended,
		Characteristics: characteristicsDTO{
			HeightCM:  ch.HeightCM,
			Ethnicity: ch.Ethnicity,
			HairColor: ch.HairColor,
			EyeColor:  ch.EyeColor,
			BodyType:  ch.BodyType,
		},
		RatingAverage: c.RatingAverage,
		RatingCount:   c.RatingCount,
		CreatedAt:     c.CreatedAt,
	}
}

func toCompanionDTOs(items []domain.Companion, now time.Time) []companionDTO {
	out := make([]companionDTO, 0, len(items))
	for _, c := range items {
		out = append(out, toCompanionDTO(c, now))
	}
	return out
}

type documentDTO struct {
	ID               string              `json:"id"`
	Type             domain.DocumentType `json:"document_type"`
	PublicURL        string              `json:"public_url"`
	Verified         *bool               `json:"verified"`
	VerificationDate *time.Time          `json:"verification_date,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

func toDocumentDTO(d domain.Document) documentDTO {
	return documentDTO{
		ID:               d.ID,
		Type:             d.Type,
		PublicURL:        d.PublicURL,
		Verified:         d.Verified,
		VerificationDate: d.VerificationDate,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
	}
}

type reviewDTO struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewDTO(r domain.Review) reviewDTO {
	return reviewDTO{ID: r.ID, Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt}
}

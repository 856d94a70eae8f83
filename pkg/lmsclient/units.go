package lmsclient

import (
	"context"
	"fmt"
	"net/http"
)

type TeacherRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

type Unit struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	StartDate     *string    `json:"start_date"`
	EndDate       *string    `json:"end_date"`
	Teacher       TeacherRef `json:"teacher"`
	AverageRating float64    `json:"average_rating"`
	RatingCount   int64      `json:"rating_count"`
	TotalEnrolled int64      `json:"total_enrolled"`
}

type UnitDetail struct {
	Unit
	VideoURL    string `json:"video_url"`
	IsEnrolled  bool   `json:"is_enrolled"`
	Assignments []struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	} `json:"assignments"`
	RelatedUnits []Unit `json:"related_units"`
}

func (c *Client) Unit(ctx context.Context, id uint) (*UnitDetail, error) {
	var u UnitDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/units/%d", id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var res struct {
		Categories []string `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/units/categories", nil, &res); err != nil {
		return nil, err
	}
	return res.Categories, nil
}

func (c *Client) Enroll(ctx context.Context, unitID uint) error {
	return c.do(ctx, http.MethodPost, "/api/enrollments", map[string]uint{"unit_id": unitID}, nil)
}

func (c *Client) Rate(ctx context.Context, unitID uint, score int, comment string) error {
	if score < 1 || score > 5 {
		return &ValidationError{Field: "score", Message: "Rating must be between 1 and 5"}
	}
	body := map[string]interface{}{"unit_id": unitID, "score": score, "comment": comment}
	return c.do(ctx, http.MethodPost, "/api/ratings", body, nil)
}

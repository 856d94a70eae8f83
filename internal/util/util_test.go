package util

import (
	"bytes"
	"lms_backend/internal/model"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "ada@example.com", Role: model.Teacher}
	user.ID = 42

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.TTL().Seconds(), 5)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{Role: model.Student}
	user.ID = 1
	token, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestTokensAreUnique(t *testing.T) {
	user := &model.User{Role: model.Student}
	user.ID = 1
	a, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)
	b, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	ca, _ := ParseJWT(a, "secret")
	cb, _ := ParseJWT(b, "secret")
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestIsYouTubeURL(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/watch?v=abc",
		"http://youtube.com/embed/abc",
		"https://youtu.be/abc",
		"youtube.com/watch?v=abc",
	}
	for _, u := range valid {
		assert.True(t, IsYouTubeURL(u), u)
	}
	invalid := []string{"", "https://vimeo.com/1", "https://youtube.com", "ftp://youtube.com/x"}
	for _, u := range invalid {
		assert.False(t, IsYouTubeURL(u), u)
	}
}

func TestValidationDetails(t *testing.T) {
	require.NoError(t, RegisterValidators())

	type input struct {
		Title    string `json:"title" binding:"required"`
		VideoURL string `json:"video_url" binding:"required,youtube_url"`
	}
	err := binding.Validator.ValidateStruct(&input{VideoURL: "https://vimeo.com/1"})
	require.Error(t, err)

	details := ValidationDetails(err)
	assert.Equal(t, "title is required", details["title"])
	assert.Equal(t, "Invalid YouTube URL", details["video_url"])

	assert.Empty(t, ValidationDetails(assert.AnError))
}

func TestPageResponse(t *testing.T) {
	p := NewPageResponse([]int{}, 25, 2, 12)
	assert.Equal(t, 3, p.Pages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPageResponse([]int{}, 0, 1, 12)
	assert.Equal(t, 0, p.Pages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestParseHelpers(t *testing.T) {
	id, ok := ParseUintParam("17")
	assert.True(t, ok)
	assert.Equal(t, uint(17), id)
	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, ok := ParseUintParam(bad)
		assert.False(t, ok, bad)
	}

	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)
	d, err = ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", FormatDate(d))
	_, err = ParseDate("01/03/2024")
	assert.Error(t, err)

	due, err := ParseDueDate("2024-03-01 23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, due.Hour())
	due, err = ParseDueDate("2024-03-01T08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, due.Hour())
	_, err = ParseDueDate("tomorrow")
	assert.Error(t, err)
}

func TestValidateMimeType(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%âãÏÓ\n")
	mime, err := ValidateMimeType(bytes.NewReader(pdf), AllowedDocumentTypes)
	require.NoError(t, err)
	assert.Equal(t, MimePDF, mime)

	_, err = ValidateMimeType(bytes.NewReader([]byte("plain notes")), []string{MimePDF})
	assert.Error(t, err)
}

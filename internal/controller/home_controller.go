package controller

import (
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type Testimonial struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Content string  `json:"content"`
	Rating  float64 `json:"rating"`
}

var testimonials = []Testimonial{
	{ID: 1, Name: "John Doe", Role: "Student", Content: "The courses here have transformed my learning experience!", Rating: 5},
	{ID: 2, Name: "Jane Smith", Role: "Professional", Content: "Excellent platform for skill development.", Rating: 4.5},
}

type HomeController struct{}

func NewHomeController() *HomeController {
	return &HomeController{}
}

// Welcome godoc
// @Summary 欢迎信息
// @Tags 系统
// @Produce  json
// @Success 200 {object} util.Response
// @Router / [get]
func (c *HomeController) Welcome(ctx *gin.Context) {
	util.SuccessWithMessage(ctx, "Welcome to the LMS API!", nil)
}

// Testimonials godoc
// @Summary 首页评价
// @Tags 系统
// @Produce  json
// @Success 200 {object} util.Response{data=[]Testimonial}
// @Router /api/testimonials [get]
func (c *HomeController) Testimonials(ctx *gin.Context) {
	util.Success(ctx, testimonials)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/render"
	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/modules/newsletter"
	"ugiot.co.il/app/internal/modules/reviews"
	"ugiot.co.il/app/internal/shared/apperr"
	"ugiot.co.il/app/pkg/view"
)

type ReviewService interface {
	Submit(ctx context.Context, in reviews.Input, lang validation.Lang) (reviews.Review, error)
	ListApproved(ctx context.Context, limit int) ([]reviews.Review, error)
}

type Subscriber interface {
	Subscribe(ctx context.Context, in newsletter.Input, lang validation.Lang) (bool, error)
}

// CommunityHandler serves reviews and the newsletter signup.
type CommunityHandler struct {
	reviews    ReviewService
	newsletter Subscriber
}

func NewCommunityHandler(r ReviewService, n Subscriber) *CommunityHandler {
	return &CommunityHandler{reviews: r, newsletter: n}
}

const reviewsListLimit = 50

// ListReviews handles GET /api/reviews (approved only).
func (h *CommunityHandler) ListReviews(c *gin.Context) {
	items, err := h.reviews.ListApproved(c.Request.Context(), reviewsListLimit)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	render.OK(c, items)
}

// SubmitReview handles POST /api/reviews. New reviews wait for approval.
func (h *CommunityHandler) SubmitReview(c *gin.Context) {
	var in reviews.Input
	if err := render.Decode(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}
	rv, err := h.reviews.Submit(c.Request.Context(), in, middleware.GetLang(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.Toast(c, http.StatusCreated, view.FlashSuccess,
		render.Msg(c, "תודה! הביקורת תפורסם לאחר אישור.", "Thank you! Your review will appear once approved."), rv)
}

// Subscribe handles POST /api/newsletter. Repeating an email is not an error.
func (h *CommunityHandler) Subscribe(c *gin.Context) {
	var in newsletter.Input
	if err := render.Decode(c, &in); err != nil {
		middleware.Fail(c, err)
		return
	}
	added, err := h.newsletter.Subscribe(c.Request.Context(), in, middleware.GetLang(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	msg := render.Msg(c, "נרשמת לניוזלטר!", "You are subscribed!")
	if !added {
		msg = render.Msg(c, "כבר רשומים לניוזלטר.", "You are already subscribed.")
	}
	render.Toast(c, http.StatusOK, view.FlashSuccess, msg, gin.H{"subscribed": true, "new": added})
}

package engine

import (
	"fmt"

	"github.com/xaenox/coach-bot/internal/classifier"
	"github.com/xaenox/coach-bot/internal/handlers"
	"github.com/xaenox/coach-bot/internal/models"
	"go.uber.org/zap"
)

type Handler interface {
	Handle(rc models.RequestContext, category models.IntentCategory, text string, snap *models.TeamSnapshot, confidence int) models.Response
}

// Fallback answers locally: classify, then run the category handler. It
// never panics; a failing handler yields the apology reply.
type Fallback struct {
	classifier *classifier.Classifier
	handler    Handler
	floor      int
	logger     *zap.Logger
}

func NewFallback(clf *classifier.Classifier, handler Handler, usefulnessFloor int, logger *zap.Logger) *Fallback {
	return &Fallback{
		classifier: clf,
		handler:    handler,
		floor:      usefulnessFloor,
		logger:     logger,
	}
}

func (f *Fallback) Respond(rc models.RequestContext, text string, snap *models.TeamSnapshot) (resp models.Response) {
	var result models.ClassificationResult
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("Handler failed",
				zap.String("category", result.Category.String()),
				zap.String("panic", fmt.Sprint(r)))
			resp = handlers.ApologyResponse(result.Confidence)
		}
	}()

	result = f.classifier.Classify(text, snap)
	if result.Confidence < f.floor {
		return handlers.General(text, result.Confidence)
	}
	return f.handler.Handle(rc, result.Category, text, snap, result.Confidence)
}

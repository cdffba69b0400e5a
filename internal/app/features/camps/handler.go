// internal/app/features/camps/handler.go
package camps

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the camp CRUD and application endpoints.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	sanitize *bluemonday.Policy
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, sanitize: bluemonday.StrictPolicy()}
}

// pathID parses a hex ObjectID chi URL param, reporting ok=false on junk.
func pathID(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	return id, err == nil
}

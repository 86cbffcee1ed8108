// handlers/scores.go
package handlers

import (
	"log"

	"leaderboard-service/middleware"
	"leaderboard-service/models"
	"leaderboard-service/services"

	"github.com/gofiber/fiber/v2"
)

// ScoreHandler wires the four public operations to the core services.
type ScoreHandler struct {
	Store    *services.ScoreStore
	Registry *services.SessionRegistry
}

func NewScoreHandler(store *services.ScoreStore, registry *services.SessionRegistry) *ScoreHandler {
	return &ScoreHandler{Store: store, Registry: registry}
}

func SetupScoreRoutes(app *fiber.App, h *ScoreHandler) {
	// 🔓 Public routes — throttled per caller on the write paths
	app.Get("/api/scores", h.ListScores)
	app.Post("/api/session/start", middleware.SessionLimiter(), h.StartSession)
	app.Post("/api/session/interact", h.RecordInteraction)
	app.Post("/api/scores", middleware.SubmitLimiter(), h.SubmitScore)

	app.Get("/health", h.Health)
}

// ListScores returns the top of the leaderboard, fastest first.
func (h *ScoreHandler) ListScores(c *fiber.Ctx) error {
	scores, err := h.Store.List()
	if err != nil {
		log.Printf("[Scores] Failed to read leaderboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to load scores",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"scores":  scores,
	})
}

// StartSession issues a fresh anti-cheat session token. The signature field
// is the truncated prefix of the server-side signature — display/debug only.
func (h *ScoreHandler) StartSession(c *fiber.Ctx) error {
	token, partialSig, err := h.Registry.Start()
	if err != nil {
		log.Printf("[Session] Failed to start session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to start session",
		})
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"token":     token,
		"signature": partialSig,
	})
}

// RecordInteraction bumps the interaction counter for a live session.
// Replies success:false for any unusable token, with no detail about why.
func (h *ScoreHandler) RecordInteraction(c *fiber.Ctx) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.JSON(fiber.Map{"success": false})
	}
	return c.JSON(fiber.Map{"success": h.Registry.Interact(body.Token)})
}

// SubmitScore validates, runs the anti-cheat evaluation and persists the
// entry. Anti-cheat only toggles the verified flag — it never rejects.
func (h *ScoreHandler) SubmitScore(c *fiber.Ctx) error {
	var sub models.ScoreSubmission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	if err := sub.Normalize(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	// Consume is a one-shot: a second submission with the same token sees
	// not-found and lands unverified.
	var session *models.Session
	if sub.Token != "" {
		if snap, ok := h.Registry.Consume(sub.Token); ok {
			session = &snap
		}
	}
	verified := services.EvaluateSubmission(sub.TimeMs, session)

	entry, rank, err := h.Store.Insert(&sub, verified)
	if err != nil {
		log.Printf("[Scores] Failed to persist score: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to save score",
		})
	}

	// Token is spent either way; drop the session now that the entry is saved.
	if session != nil {
		h.Registry.Delete(session.Token)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"rank":     rank,
		"retained": rank != services.RankNotRetained,
		"score":    entry,
	})
}

// Health reports liveness plus the current leaderboard size, for gateway checks.
func (h *ScoreHandler) Health(c *fiber.Ctx) error {
	count, err := h.Store.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "degraded",
		})
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"scores": count,
	})
}

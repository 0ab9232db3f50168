package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bondbrightly/bond-server/internal/domain"
	"github.com/bondbrightly/bond-server/internal/usecase"
	wsDelivery "github.com/bondbrightly/bond-server/internal/delivery/ws"
)

// Store is the data-access surface the REST API consumes. The realtime
// layer uses narrower slices of the same store.
type Store interface {
	UpsertProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	SearchProfiles(ctx context.Context, q, excludeID string) ([]domain.Profile, error)
	FriendshipExists(ctx context.Context, userA, userB string) (bool, error)
	CreateFriendship(ctx context.Context, userID, friendID, relationshipType string) (*domain.Friendship, error)
	ListFriends(ctx context.Context, userID string) ([]domain.Friend, error)
	DeleteFriendship(ctx context.Context, id uuid.UUID) error
	MessagesBetween(ctx context.Context, userA, userB string) ([]domain.ChatMessage, error)
	AnswersBetween(ctx context.Context, userA, userB string, since time.Time) ([]domain.DailyAnswer, error)
}

type Handler struct {
	store    Store
	matcher  *usecase.AnswerMatcher
	gateway  *wsDelivery.Gateway
	upgrader websocket.Upgrader
}

func NewHandler(store Store, matcher *usecase.AnswerMatcher, gateway *wsDelivery.Gateway, allowedOrigins []string) *Handler {
	return &Handler{
		store:   store,
		matcher: matcher,
		gateway: gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return isOriginAllowed(r.Header.Get("Origin"), allowedOrigins)
			},
		},
	}
}

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string, allowedOrigins []string) bool {
	// Empty origin is allowed (same-origin requests)
	if origin == "" {
		return true
	}

	for _, allowed := range allowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

var (
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	controlCharRegex = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// sanitizeUsername cleans username input; returns "" if nothing is left.
func sanitizeUsername(name string) string {
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) > 50 {
		runes := []rune(name)
		name = string(runes[:50])
	}

	name = htmlTagRegex.ReplaceAllString(name, "")
	name = controlCharRegex.ReplaceAllString(name, "")

	return strings.TrimSpace(name)
}

// HandleHealth reports liveness
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleUpsertProfile creates or updates a user profile
func (h *Handler) HandleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string                  `json:"user_id"`
		Username        string                  `json:"username"`
		Email           string                  `json:"email"`
		Age             string                  `json:"age"`
		Birthday        string                  `json:"birthday"`
		Bio             string                  `json:"bio"`
		ProfilePicture  string                  `json:"profile_picture"`
		Interests       []string                `json:"interests"`
		Hobbies         []string                `json:"hobbies"`
		PersonalAnswers []domain.PersonalAnswer `json:"personal_answers"`
		QuestionTime    string                  `json:"question_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	req.Username = sanitizeUsername(req.Username)
	if req.UserID == "" || req.Username == "" {
		respondError(w, http.StatusBadRequest, "user_id and username are required")
		return
	}

	profile, err := h.store.UpsertProfile(r.Context(), &domain.Profile{
		ID:              req.UserID,
		Username:        req.Username,
		Email:           req.Email,
		Age:             req.Age,
		Birthday:        req.Birthday,
		Bio:             req.Bio,
		ProfilePicture:  req.ProfilePicture,
		Interests:       req.Interests,
		Hobbies:         req.Hobbies,
		PersonalAnswers: req.PersonalAnswers,
		QuestionTime:    req.QuestionTime,
	})
	if err != nil {
		log.Printf("Profile upsert failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// HandleGetProfile fetches a profile by user ID. Responds null, not 404,
// when the user has no profile yet.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	profile, err := h.store.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondJSON(w, http.StatusOK, nil)
			return
		}
		log.Printf("Profile fetch failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// HandleSearchUsers searches profiles by username substring
func (h *Handler) HandleSearchUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respondJSON(w, http.StatusOK, []domain.Profile{})
		return
	}

	results, err := h.store.SearchProfiles(r.Context(), q, r.URL.Query().Get("currentUserId"))
	if err != nil {
		log.Printf("Search failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// HandleFriendRequest creates a friendship (auto-accepted) and notifies the
// added party over their personal channel
func (h *Handler) HandleFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromUserID       string `json:"from_user_id"`
		ToUserID         string `json:"to_user_id"`
		RelationshipType string `json:"relationship_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FromUserID == "" || req.ToUserID == "" {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	exists, err := h.store.FriendshipExists(r.Context(), req.FromUserID, req.ToUserID)
	if err != nil {
		log.Printf("Friendship check failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to send friend request")
		return
	}
	if exists {
		respondError(w, http.StatusBadRequest, "Friendship already exists or pending")
		return
	}

	friendship, err := h.store.CreateFriendship(r.Context(), req.FromUserID, req.ToUserID, req.RelationshipType)
	if err != nil {
		log.Printf("Friendship insert failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to send friend request")
		return
	}

	h.gateway.NotifyFriendAdded(req.ToUserID, friendship)

	respondJSON(w, http.StatusOK, friendship)
}

// HandleListFriends returns the accepted friends of a user
func (h *Handler) HandleListFriends(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	friends, err := h.store.ListFriends(r.Context(), userID)
	if err != nil {
		log.Printf("Friends fetch failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch friends")
		return
	}

	respondJSON(w, http.StatusOK, friends)
}

// HandleRemoveFriend deletes a friendship by ID
func (h *Handler) HandleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "friendshipID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid friendship id")
		return
	}

	if err := h.store.DeleteFriendship(r.Context(), id); err != nil {
		log.Printf("Friendship delete failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to remove friend")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleMessages returns the conversation between two users, oldest first
func (h *Handler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	friendID := chi.URLParam(r, "friendID")

	messages, err := h.store.MessagesBetween(r.Context(), userID, friendID)
	if err != nil {
		log.Printf("Messages fetch failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// HandleSubmitAnswer records a daily answer and, when the friend already
// answered the same question today, unlocks the chat for both sides.
func (h *Handler) HandleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		FriendID string `json:"friend_id"`
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.UserID == "" || req.FriendID == "" || req.Question == "" {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	saved, match, err := h.matcher.SubmitAndCheck(r.Context(), req.UserID, req.FriendID, req.Question, req.Answer)
	if err != nil {
		log.Printf("Answer submit failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to submit answer")
		return
	}

	if match != nil {
		h.gateway.NotifyBothAnswered(req.UserID, req.FriendID, match)
	}

	respondJSON(w, http.StatusOK, saved)
}

// HandleTodayAnswers returns today's answers between two users, both
// directions
func (h *Handler) HandleTodayAnswers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	friendID := chi.URLParam(r, "friendID")

	answers, err := h.store.AnswersBetween(r.Context(), userID, friendID, usecase.StartOfDay(time.Now()))
	if err != nil {
		log.Printf("Answers fetch failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch answers")
		return
	}

	respondJSON(w, http.StatusOK, answers)
}

// HandleWebSocket upgrades the connection and starts the client pumps. The
// connection stays unregistered until it sends a register event.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := wsDelivery.NewClient(h.gateway, conn)
	go client.WritePump()
	go client.ReadPump()
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

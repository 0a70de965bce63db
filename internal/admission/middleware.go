package admission

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/item-service/internal/auth"
	"github.com/spec-kit/item-service/internal/config"
	"github.com/spec-kit/item-service/internal/domain"
	"github.com/spec-kit/item-service/internal/events"
	"github.com/spec-kit/item-service/internal/observability"
)

// Middleware gates every request before it reaches business logic. It
// classifies the caller's role, selects the role's quota and asks the
// decision provider for a verdict.
type Middleware struct {
	provider   DecisionProvider
	cfg        config.AdmissionConfig
	logger     *zap.Logger
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
}

// NewMiddleware constructs the admission middleware. dispatcher may be nil
// when no audit sink is wired.
func NewMiddleware(provider DecisionProvider, cfg config.AdmissionConfig, logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) *Middleware {
	return &Middleware{provider: provider, cfg: cfg, logger: logger, metrics: metrics, dispatcher: dispatcher}
}

func (m *Middleware) policyFor(role domain.Role) Policy {
	capacity := m.cfg.StandardCapacity
	if role == domain.RoleElevated {
		capacity = m.cfg.ElevatedCapacity
	}
	return Policy{Window: m.cfg.Window(), Capacity: capacity}
}

// Handle runs the admission decision for one request. Unauthenticated
// callers are classified standard and get the stricter quota. A provider
// failure is a 500, never a silent allow and never a retry.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	req := Request{
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Method:    c.Method(),
		Path:      c.Path(),
		Role:      domain.RoleStandard,
	}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		req.PrincipalID = principal.ID
		req.Role = principal.Role
	}

	decision, err := m.provider.Decide(c.UserContext(), req, m.policyFor(req.Role))
	if err != nil {
		m.logger.Error("admission provider failed",
			zap.Error(err),
			zap.String("ip", req.IP),
			zap.String("path", req.Path))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Internal server error",
			"message": "Something went wrong with the admission check",
		})
	}

	if !decision.Denied {
		return c.Next()
	}

	callerFields := []zap.Field{
		zap.String("ip", req.IP),
		zap.String("user_agent", req.UserAgent),
		zap.String("path", req.Path),
	}
	m.metrics.RecordDenial(req.Path, string(decision.Kind))
	m.publishDenied(c, req, decision.Kind)

	switch decision.Kind {
	case DenyBot:
		m.logger.Warn("bot request blocked", callerFields...)
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"error":   "Forbidden",
			"message": "Automated requests are not allowed",
		})
	case DenyShield:
		m.logger.Warn("shield request blocked", append(callerFields, zap.String("method", req.Method))...)
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"error":   "Forbidden",
			"message": "Request blocked by security policy",
		})
	default:
		// Quota exhaustion answers 403 rather than 429; the running system
		// always responded this way and clients depend on it.
		m.logger.Warn("rate limit exceeded", callerFields...)
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"error":   "Forbidden",
			"message": "Too many requests",
		})
	}
}

func (m *Middleware) publishDenied(c *fiber.Ctx, req Request, kind DenyKind) {
	if m.dispatcher == nil {
		return
	}
	_ = m.dispatcher.Publish(c.UserContext(), events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAdmissionDenied,
		SubjectID: req.PrincipalID,
		Timestamp: time.Now(),
		Payload: events.AdmissionDeniedPayload{
			Kind:      string(kind),
			IP:        req.IP,
			UserAgent: req.UserAgent,
			Path:      req.Path,
		},
	})
}

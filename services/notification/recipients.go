package notification

import (
	"context"

	"sitetrack/models"

	"go.uber.org/zap"
)

// audience is one source of recipients: every user holding a role, or the requester.
type audience struct {
	role      models.Role
	requester bool
}

var requesterAudience = audience{requester: true}

// recipientPolicy maps each status to its audiences in notification order.
var recipientPolicy = map[models.ProcurementStatus][]audience{
	models.StatusPending:         {{role: models.RoleManager}, {role: models.RoleQuantitySurveyor}},
	models.StatusQuantityChecked: {{role: models.RoleManager}, requesterAudience},
	models.StatusApproved:        {requesterAudience},
	models.StatusRejected:        {requesterAudience},
	models.StatusOrdered:         {requesterAudience},
	models.StatusProcessing:      {requesterAudience},
	models.StatusShipped:         {requesterAudience},
	models.StatusArrived:         {requesterAudience, {role: models.RoleManager}},
}

// RecipientResolver turns a status change into the push-capable users to notify.
type RecipientResolver struct {
	dir    Directory
	logger *zap.Logger
}

func NewRecipientResolver(dir Directory, logger *zap.Logger) *RecipientResolver {
	if logger == nil {
		logger = zap.L()
	}
	return &RecipientResolver{dir: dir, logger: logger}
}

// Resolve returns the recipients for status, de-duplicated by user id with the first
// occurrence kept. An empty result is valid.
func (r *RecipientResolver) Resolve(ctx context.Context, status models.ProcurementStatus, requestingUserID string) ([]models.User, error) {
	audiences, ok := recipientPolicy[status]
	if !ok {
		r.logger.Warn("no recipient policy for status", zap.String("status", string(status)))
		return []models.User{}, nil
	}

	var matched []models.User
	for _, a := range audiences {
		if a.requester {
			u, err := r.dir.PushCapableUserByID(ctx, requestingUserID)
			if err != nil {
				return nil, err
			}
			if u != nil {
				matched = append(matched, *u)
			}
			continue
		}

		users, err := r.dir.PushCapableUsersByRole(ctx, a.role)
		if err != nil {
			return nil, err
		}
		matched = append(matched, users...)
	}

	return dedupeByID(matched), nil
}

func dedupeByID(users []models.User) []models.User {
	seen := make(map[string]struct{}, len(users))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if _, dup := seen[u.ID]; dup {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out
}

package service

import (
	"context"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"go.uber.org/zap"
)

const dedupDay = "2006-01-02"

// MarkOverdue notifies borrowers of overdue loans and of loans coming due within
// the reminder window. It writes nothing: overdue is derived on every read.
// Each notice is keyed per loan per day so repeated sweeps do not spam.
func (s *Service) MarkOverdue(ctx context.Context) (model.SweepResult, error) {
	ctx, cancel, now := s.begin(ctx)
	defer cancel()

	loans, err := s.repo.ListOpenLoansDueBefore(ctx, now.Add(s.policy.ReminderBefore()))
	if err != nil {
		return model.SweepResult{}, err
	}

	var res model.SweepResult
	day := now.UTC().Format(dedupDay)
	for _, l := range loans {
		n := model.Notification{
			UserID:     l.UserID,
			LoanID:     l.ID,
			OccurredAt: now,
		}
		if l.IsOverdue(now) {
			n.Type = model.NotificationOverdue
			n.Payload = map[string]any{
				"titleId":     l.TitleID,
				"dueAt":       l.DueAt,
				"overdueDays": l.OverdueDays(now),
				"accruedFine": s.fines.Accrued(l, now),
			}
			res.Overdue++
		} else {
			n.Type = model.NotificationReminder
			n.Payload = map[string]any{
				"titleId": l.TitleID,
				"dueAt":   l.DueAt,
			}
			res.Reminders++
		}
		n.DedupKey = string(n.Type) + ":" + l.ID + ":" + day
		s.notifier.Notify(ctx, n)
	}

	s.log.Info("overdue sweep", zap.Int("overdue", res.Overdue), zap.Int("reminders", res.Reminders))
	return res, nil
}

package todobackend

import "context"

// NeedsVerification records a sighting of the client address and reports
// whether the client must pass a verification challenge before the guarded
// operation proceeds. When address is empty the caller's address is taken
// from ctx via [WithClientIP]. A store failure is returned as-is; the caller
// decides whether to fail open or closed.
func (e *Engine) NeedsVerification(ctx context.Context, address string) (bool, error) {
	if address == "" {
		address = clientIPFromContext(ctx)
	}
	if address == "" {
		return false, ErrMissingCredentials
	}

	challenged, err := e.tracker.NeedsVerification(ctx, address)
	if err != nil {
		e.metricInc(MetricStoreError)
		return false, err
	}

	if challenged {
		e.metricInc(MetricAbuseChallenge)
		e.emitAudit(ctx, AuditEvent{
			EventType: AuditEventAbuseChallenge,
			IP:        address,
			Success:   false,
		})
	}
	return challenged, nil
}

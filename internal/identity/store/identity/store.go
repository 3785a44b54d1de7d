// Package identity provides the persistence implementations for identity
// records. Implementations return sentinel errors (pkg/platform/sentinel);
// the service layer translates them into coded domain errors.
package identity

// StatusUpdate carries the optional field changes that ride along with a
// conditional status update.
type StatusUpdate struct {
	DirectoryDN *string
	LoginID     *string
}

// StatusUpdateOption customizes a conditional status update.
type StatusUpdateOption func(*StatusUpdate)

// WithDirectoryDN records the distinguished name assigned during activation.
func WithDirectoryDN(dn string) StatusUpdateOption {
	return func(u *StatusUpdate) {
		u.DirectoryDN = &dn
	}
}

// WithLoginID records the login principal linked to the record.
func WithLoginID(loginID string) StatusUpdateOption {
	return func(u *StatusUpdate) {
		u.LoginID = &loginID
	}
}

func buildStatusUpdate(opts []StatusUpdateOption) StatusUpdate {
	var update StatusUpdate
	for _, opt := range opts {
		if opt != nil {
			opt(&update)
		}
	}
	return update
}

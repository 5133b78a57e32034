package notify

import (
	"log"

	"homechat/backend/internal/models"
)

// Dispatcher hands a notification to an out-of-band channel such as email
// or SMS. The fan-out service treats dispatch as best-effort: a failed
// dispatch is logged and the persisted notification stands.
type Dispatcher interface {
	Dispatch(user *models.User, n *models.Notification) error
}

// LogDispatcher is the default dispatcher. It only writes a log line,
// which keeps the delivery path observable until a real email sender is
// plugged in.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(user *models.User, n *models.Notification) error {
	log.Printf("Dispatching %s notification %d to %s", n.Type, n.ID, user.Email)
	return nil
}

package domain

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationFailure NotificationKind = "failure"
)

const (
	SubmitSuccessTitle = "You have submitted a financing request. You will hear back from us shortly."
	SubmitFailureTitle = "Oops! There was an error submitting your request, please try again later."
)

// Notification is shown once per submission attempt
type Notification struct {
	Kind  NotificationKind
	Title string
}

// Icon returns the checkmark or cross shown next to the title
func (n Notification) Icon() string {
	if n.Kind == NotificationSuccess {
		return "✓"
	}
	return "✗"
}

// NewSuccessNotification returns the notification for an accepted request
func NewSuccessNotification() Notification {
	return Notification{Kind: NotificationSuccess, Title: SubmitSuccessTitle}
}

// NewFailureNotification returns the notification for a failed submission
func NewFailureNotification() Notification {
	return Notification{Kind: NotificationFailure, Title: SubmitFailureTitle}
}

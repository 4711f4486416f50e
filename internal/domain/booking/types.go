package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Source records how the booking entered the system.
type Source string

const (
	SourcePlatform Source = "platform"
	SourceOffline  Source = "offline"
)

func (s Source) String() string {
	return string(s)
}

func (s Source) IsValid() bool {
	return s == SourcePlatform || s == SourceOffline
}

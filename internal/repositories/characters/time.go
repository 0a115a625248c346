package characters

import "time"

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now().UTC() }

// SystemTime returns a TimeProvider backed by the wall clock in UTC
func SystemTime() TimeProvider { return systemTime{} }

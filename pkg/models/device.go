package models

// MediaDevice is one entry of the host platform's media-device listing
type MediaDevice struct {
	DeviceID string `json:"deviceId"`
	Kind     string `json:"kind"`
	Label    string `json:"label"`
}

// Device is a capture device a session can decode from
type Device struct {
	DeviceID string `json:"deviceId"`
	Label    string `json:"label"`
}

// DeviceSelect is the request body for choosing the active capture device
type DeviceSelect struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

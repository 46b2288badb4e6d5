package decoder

import (
	"fmt"

	"qrscan-go/pkg/models"
)

const videoInputKind = "videoinput"

// NormalizeDevices keeps the video inputs of a media-device listing. A device
// without a label is named after its position in the full listing.
func NormalizeDevices(listing []models.MediaDevice) []models.Device {
	devices := make([]models.Device, 0, len(listing))
	for i, d := range listing {
		if d.Kind != videoInputKind {
			continue
		}
		label := d.Label
		if label == "" {
			label = fmt.Sprintf("Camera %d", i+1)
		}
		devices = append(devices, models.Device{DeviceID: d.DeviceID, Label: label})
	}
	return devices
}

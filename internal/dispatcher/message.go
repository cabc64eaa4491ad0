package dispatcher

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/sos_alert_system/internal/models"
)

const (
	timeLayout          = "02 Jan 2006, 03:04:05 PM MST"
	locationUnavailable = "not available"
)

// BuildSMSMessage собирает текст SMS-оповещения
func BuildSMSMessage(incident *models.Incident, loc *time.Location) string {
	location := incident.LocationURL()
	if location == "" {
		location = locationUnavailable
	}

	var b strings.Builder
	b.WriteString("EMERGENCY ALERT! ")
	b.WriteString(alertSentence(incident))
	fmt.Fprintf(&b, "\nTime: %s", formatTime(incident, loc))
	fmt.Fprintf(&b, "\nLocation: %s", location)
	fmt.Fprintf(&b, "\nBattery: %d%%", incident.BatteryLevel)
	b.WriteString("\nPlease respond immediately.")
	return b.String()
}

// BuildVoiceMessage собирает текст для синтеза речи.
// Основное предложение повторяется дважды: аудиоканал теряет часть речи.
func BuildVoiceMessage(incident *models.Incident, loc *time.Location) string {
	location := "Location is " + locationUnavailable + "."
	if incident.LocationURL() != "" {
		location = fmt.Sprintf("Location is latitude %s, longitude %s.",
			strconv.FormatFloat(incident.Latitude, 'f', -1, 64),
			strconv.FormatFloat(incident.Longitude, 'f', -1, 64))
	}

	sentence := alertSentence(incident)
	return fmt.Sprintf(
		"Emergency alert. %s I repeat. %s The alert was raised at %s. %s Battery level is %d percent. Please respond immediately.",
		sentence,
		sentence,
		formatTime(incident, loc),
		location,
		incident.BatteryLevel,
	)
}

func alertSentence(incident *models.Incident) string {
	return fmt.Sprintf("Device number %d has triggered a panic alert and needs help.", incident.DeviceID)
}

func formatTime(incident *models.Incident, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return incident.EventTime().In(loc).Format(timeLayout)
}

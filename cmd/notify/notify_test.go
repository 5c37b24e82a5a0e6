package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type sentNotification struct {
	title   string
	message string
	icon    string
	alert   bool
}

func captureNotifications(t *testing.T, err error) *[]sentNotification {
	t.Helper()
	var sent []sentNotification
	origNotify := sendNotification
	origAlert := sendAlert
	sendNotification = func(title, message, icon string) error {
		sent = append(sent, sentNotification{title: title, message: message, icon: icon})
		return err
	}
	sendAlert = func(title, message, icon string) error {
		sent = append(sent, sentNotification{title: title, message: message, icon: icon, alert: true})
		return err
	}
	t.Cleanup(func() {
		sendNotification = origNotify
		sendAlert = origAlert
	})
	return &sent
}

func TestRunNotify(t *testing.T) {
	sent := captureNotifications(t, nil)

	params := &Params{
		Message: []string{"Backup", "finished"},
		Title:   "sundry",
		Icon:    "/usr/share/icons/info.png",
	}

	var stderr bytes.Buffer
	code := Run(params, &stderr)
	if code != 0 {
		t.Errorf("expected exit code 0, got %d, stderr: %s", code, stderr.String())
	}

	if len(*sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(*sent))
	}
	n := (*sent)[0]
	if n.title != "sundry" {
		t.Errorf("expected title 'sundry', got %q", n.title)
	}
	if n.message != "Backup finished" {
		t.Errorf("expected message 'Backup finished', got %q", n.message)
	}
	if n.icon != "/usr/share/icons/info.png" {
		t.Errorf("expected icon path to be passed through, got %q", n.icon)
	}
	if n.alert {
		t.Error("expected a plain notification, got an alert")
	}
}

func TestRunNotifySound(t *testing.T) {
	sent := captureNotifications(t, nil)

	params := &Params{
		Message: []string{"Copy done"},
		Title:   "sundry",
		Sound:   true,
	}

	var stderr bytes.Buffer
	code := Run(params, &stderr)
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}

	if len(*sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(*sent))
	}
	if !(*sent)[0].alert {
		t.Error("expected an alert when --sound is set")
	}
}

func TestRunNotifyFailure(t *testing.T) {
	captureNotifications(t, errors.New("no notification service available"))

	params := &Params{
		Message: []string{"hello"},
		Title:   "sundry",
	}

	var stderr bytes.Buffer
	code := Run(params, &stderr)
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "notify: no notification service available") {
		t.Errorf("expected error on stderr, got: %q", stderr.String())
	}
}

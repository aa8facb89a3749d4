package form

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"applybot/core/telegram/format"
)

// Applicant identifies the Telegram user filling the form.
type Applicant struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// UsernameLabel renders the username as shown to the operator and stored
// in the row: "@name", or "немає" when the account has no username.
func (a Applicant) UsernameLabel() string {
	if a.Username == "" {
		return "немає"
	}
	return "@" + a.Username
}

// FullName concatenates first and last name, trimming the gap when one is
// missing.
func (a Applicant) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// DMLink returns a deep link that opens a direct chat with the applicant.
func (a Applicant) DMLink() string {
	return fmt.Sprintf("tg://user?id=%d", a.ID)
}

// Submission is a completed form ready for the terminal side effects.
type Submission struct {
	Applicant   Applicant
	SubmittedAt time.Time

	Name       string
	Age        string
	City       string
	Documents  string
	Experience string
	Phone      string
}

// Row lays the submission out as a store row, answers first, identity last.
func (s Submission) Row() []string {
	return []string{
		s.SubmittedAt.Format("2006-01-02 15:04"),
		s.Name,
		s.Age,
		s.City,
		s.Documents,
		s.Experience,
		s.Phone,
		strconv.FormatInt(s.Applicant.ID, 10),
		s.Applicant.UsernameLabel(),
		s.Applicant.FullName(),
	}
}

// OperatorText renders the Markdown notification sent to the operator.
// Answers are user input, so Markdown control characters are escaped.
func (s Submission) OperatorText() string {
	esc := format.EscapeMarkdown
	var b strings.Builder
	b.WriteString("📄 *Нова заявка!*\n")
	b.WriteString("🕒 " + s.SubmittedAt.Format("02.01.2006 15:04") + "\n\n")
	b.WriteString("👤 *Ім'я:* " + esc(s.Name) + "\n")
	b.WriteString("🔢 *Вік:* " + esc(s.Age) + "\n")
	b.WriteString("🏙️ *Місто:* " + esc(s.City) + "\n")
	b.WriteString("📄 *Документи:* " + esc(s.Documents) + "\n")
	b.WriteString("🧾 *Досвід:* " + esc(s.Experience) + "\n")
	b.WriteString("📱 *Контакт:* " + esc(s.Phone) + "\n\n")
	b.WriteString("👤 *Користувач:*\n")
	b.WriteString("ID: " + strconv.FormatInt(s.Applicant.ID, 10) + "\n")
	b.WriteString("Username: " + esc(s.Applicant.UsernameLabel()) + "\n")
	b.WriteString("Ім'я: " + esc(s.Applicant.FullName()))
	return b.String()
}

package form

import "applybot/core/telegram/state"

// Form steps, in answer order. A session moves strictly forward through
// this chain and only ever resets back to idle.
const (
	StepName       state.State = "awaiting_name"
	StepAge        state.State = "awaiting_age"
	StepCity       state.State = "awaiting_city"
	StepDocuments  state.State = "awaiting_documents"
	StepExperience state.State = "awaiting_experience"
	StepPhone      state.State = "awaiting_phone"
)

// Session data keys for collected answers.
const (
	FieldName       = "name"
	FieldAge        = "age"
	FieldCity       = "city"
	FieldDocuments  = "documents"
	FieldExperience = "experience"
	FieldPhone      = "phone"
)

type stepDef struct {
	step   state.State
	field  string
	prompt string
}

var steps = []stepDef{
	{StepName, FieldName, "1. Як вас звати?"},
	{StepAge, FieldAge, "2. Скільки вам років?"},
	{StepCity, FieldCity, "3. З якого ви міста?"},
	{StepDocuments, FieldDocuments, "4. Які документи маєте (паспорт, ID, водійське тощо)?"},
	{StepExperience, FieldExperience, "5. Чи проходили раніше верифікації (якщо так то де?)"},
	{StepPhone, FieldPhone, "6. Залиште ваш номер телефону для зв'язку."},
}

// Steps returns the ordered list of form steps.
func Steps() []state.State {
	out := make([]state.State, len(steps))
	for i, s := range steps {
		out[i] = s.step
	}
	return out
}

// IsFormStep reports whether st belongs to the form step chain.
func IsFormStep(st state.State) bool {
	return stepIndex(st) >= 0
}

func stepIndex(st state.State) int {
	for i, s := range steps {
		if s.step == st {
			return i
		}
	}
	return -1
}

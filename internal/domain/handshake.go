package domain

// DepositPhase is a state of the deposit state machine.
type DepositPhase string

const (
	PhaseIdle          DepositPhase = "idle"
	PhaseAmountEntered DepositPhase = "amount_entered"

	// Simulated branch
	PhaseSimulatedPosting DepositPhase = "simulated_posting"
	PhaseSimulatedDone    DepositPhase = "simulated_done"
	PhaseSimulatedFailed  DepositPhase = "simulated_failed"

	// Card branch
	PhaseIntentRequested      DepositPhase = "intent_requested"
	PhaseAwaitingConfirmation DepositPhase = "awaiting_confirmation"
	PhaseConfirmed            DepositPhase = "confirmed"
	PhaseCrediting            DepositPhase = "crediting"
	PhaseCredited             DepositPhase = "credited"
	PhaseCreditFailed         DepositPhase = "credit_failed"
)

// nextPhases is the legal transition table of the deposit state machine.
var nextPhases = map[DepositPhase][]DepositPhase{
	PhaseIdle:             {PhaseAmountEntered},
	PhaseAmountEntered:    {PhaseSimulatedPosting, PhaseIntentRequested},
	PhaseSimulatedPosting: {PhaseSimulatedDone, PhaseSimulatedFailed},
	PhaseSimulatedFailed:  {PhaseSimulatedPosting},

	PhaseIntentRequested:      {PhaseAwaitingConfirmation, PhaseAmountEntered},
	PhaseAwaitingConfirmation: {PhaseConfirmed, PhaseAmountEntered, PhaseIdle},
	PhaseConfirmed:            {PhaseCrediting},
	PhaseCrediting:            {PhaseCredited, PhaseCreditFailed},
	PhaseCreditFailed:         {PhaseCrediting},
}

// ValidPhaseTransition reports whether from may advance to to.
func ValidPhaseTransition(from, to DepositPhase) bool {
	for _, p := range nextPhases[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the phase ends a deposit attempt. CreditFailed
// is deliberately not terminal: the credit must be resubmitted.
func (p DepositPhase) Terminal() bool {
	switch p {
	case PhaseSimulatedDone, PhaseCredited:
		return true
	}
	return false
}

// PaymentIntentHandshake is the ephemeral state of one in-flight card
// deposit. It is owned by exactly one deposit operation, destroyed on any
// terminal transition, and never persisted.
type PaymentIntentHandshake struct {
	IntentID     string
	IntentSecret string
	Phase        DepositPhase
}

// Void erases the intent so no credit can ever be issued for it.
func (h *PaymentIntentHandshake) Void() {
	h.IntentID = ""
	h.IntentSecret = ""
	h.Phase = PhaseAmountEntered
}

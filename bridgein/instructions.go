package bridgein

import (
	"fmt"
	"io"
	"strings"
)

// DefaultBridgeAccount is the native account receiving bridge in transfers
// when none is configured.
const DefaultBridgeAccount = "liberdusbridge"

type Step struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Instructions explain how to move native coins to the token network. The
// transfer itself happens in the native wallet, this side only tells the
// user where to send.
type Instructions struct {
	BridgeAccount string `json:"bridgeAccount"`
}

func NewInstructions(bridgeAccount string) *Instructions {
	bridgeAccount = strings.TrimSpace(bridgeAccount)
	if bridgeAccount == "" {
		bridgeAccount = DefaultBridgeAccount
	}
	return &Instructions{BridgeAccount: bridgeAccount}
}

func (in *Instructions) Summary() string {
	return "To bridge your coins into Liberdus tokens, send a transfer from the Liberdus Web Client to the special bridge account."
}

func (in *Instructions) Steps() []Step {
	return []Step{
		{
			Title: "Transfer Funds",
			Text:  "Sign in your Liberdus account to the Web Client and initiate a transfer.",
		},
		{
			Title: "Target Bridge Account",
			Text:  fmt.Sprintf("Set the recipient to %q and the desired amount.", in.BridgeAccount),
		},
		{
			Title: "Confirm & Receive",
			Text: "Confirm the transaction. Liberdus tokens will reflect within minutes to the token network address " +
				"(the same address associated with your Liberdus account).",
		},
	}
}

func (in *Instructions) Note() string {
	return "Note: Token reflection time may vary due to network congestion."
}

// Render writes the instructions as plain text.
func (in *Instructions) Render(w io.Writer) error {
	var b strings.Builder
	b.WriteString("How to Bridge In\n\n")
	b.WriteString(in.Summary())
	b.WriteString("\n\n")
	for i, step := range in.Steps() {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, step.Title, step.Text)
	}
	b.WriteString("\n*")
	b.WriteString(in.Note())
	b.WriteString("*\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// View is the JSON form served to clients.
type View struct {
	BridgeAccount string `json:"bridgeAccount"`
	Summary       string `json:"summary"`
	Steps         []Step `json:"steps"`
	Note          string `json:"note"`
}

func (in *Instructions) View() *View {
	return &View{
		BridgeAccount: in.BridgeAccount,
		Summary:       in.Summary(),
		Steps:         in.Steps(),
		Note:          in.Note(),
	}
}

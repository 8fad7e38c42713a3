package stripe

// portalSessionResponse is the part of a billing portal session we read.
type portalSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Event is the envelope of a webhook delivery.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

// CheckoutSession carries the fields needed to link a paying user.
type CheckoutSession struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	ClientReferenceID string `json:"client_reference_id"`
}

const EventCheckoutCompleted = "checkout.session.completed"

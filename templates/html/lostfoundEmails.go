package templates

import "fmt"

// RenderClaimReceivedEmail acknowledges a user's claim on a stored item
func RenderClaimReceivedEmail(name, itemName, reportID string) string {
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your claim on %q (%s).\n\nCampus security will review your claim and contact you to verify ownership. Please bring your university ID when you come to collect the item.\n\nIf you did not submit this claim, you can ignore this message.",
		name, itemName, reportID)
	return RenderGenericEmail("Claim received", body)
}

// RenderAdminDigestEmail is the nightly summary sent to roster admins
func RenderAdminDigestEmail(storedLines []string, staleCount int64) string {
	body := "Daily lost & found summary.\n\n"
	if len(storedLines) == 0 {
		body += "No items were stored in the last 24 hours.\n"
	} else {
		body += fmt.Sprintf("Items stored in the last 24 hours (%d):\n", len(storedLines))
		for _, line := range storedLines {
			body += "  - " + line + "\n"
		}
	}
	body += fmt.Sprintf("\nStored items older than 30 days with no claims: %d\n", staleCount)
	return RenderGenericEmail("Lost & Found daily digest", body)
}

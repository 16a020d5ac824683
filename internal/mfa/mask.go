package mfa

import "strings"

// MaskContact elides the interior of a contact address for display.
func MaskContact(contact string) string {
	if at := strings.LastIndex(contact, "@"); at >= 0 {
		return maskEmail(contact, at)
	}
	return maskPhone(contact)
}

func maskEmail(email string, at int) string {
	if at == 0 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

func maskPhone(phone string) string {
	if len(phone) >= 10 {
		return phone[:3] + "****" + phone[len(phone)-6:]
	}
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}

// maskNationalID keeps only the last four digits.
func maskNationalID(id string) string {
	if len(id) <= 4 {
		return strings.Repeat("*", len(id))
	}
	return strings.Repeat("*", len(id)-4) + id[len(id)-4:]
}

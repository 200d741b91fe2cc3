package config

// MaskSecret masks a secret value for log output, keeping a short prefix
// and suffix for recognisability.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

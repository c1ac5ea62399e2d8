package storage

// DefaultLanguage is used until the user picks another one.
const DefaultLanguage = "en"

// Language returns the stored locale code, or DefaultLanguage.
func (db *DB) Language() (string, error) {
	lang, ok, err := db.Get(KeyLanguage)
	if err != nil {
		return "", err
	}
	if !ok || lang == "" {
		return DefaultLanguage, nil
	}
	return lang, nil
}

// SetLanguage persists the locale code.
func (db *DB) SetLanguage(code string) error {
	if !ValidLanguage(code) {
		return ErrInvalidLanguage
	}
	return db.Set(KeyLanguage, code)
}

// ValidLanguage reports whether code is two lowercase ASCII letters.
func ValidLanguage(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'a' || code[i] > 'z' {
			return false
		}
	}
	return true
}

// IsRTL reports whether the language is written right to left.
func IsRTL(code string) bool {
	return code == "ar"
}

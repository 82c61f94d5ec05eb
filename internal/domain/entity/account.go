package entity

// Account identifies one AWS account to audit.
//
// Static keys take precedence over Profile. When neither is set the default
// credential chain is used.
type Account struct {
	Name            string `json:"name" yaml:"name" toml:"name"`
	AccessKeyID     string `json:"access_id,omitempty" yaml:"access_id,omitempty" toml:"access_id"`
	SecretAccessKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty" toml:"secret_key"`
	SessionToken    string `json:"session_token,omitempty" yaml:"session_token,omitempty" toml:"session_token"`
	Profile         string `json:"profile,omitempty" yaml:"profile,omitempty" toml:"profile"`
}

// HasStaticCredentials reports whether both static keys are set.
func (a Account) HasStaticCredentials() bool {
	return a.AccessKeyID != "" && a.SecretAccessKey != ""
}

// String never includes the secret key.
func (a Account) String() string {
	switch {
	case a.HasStaticCredentials():
		return a.Name + " (" + maskKey(a.AccessKeyID) + ")"
	case a.Profile != "":
		return a.Name + " (profile " + a.Profile + ")"
	default:
		return a.Name
	}
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// Package credential resolves the channel and token for a single send from
// an ordered list of sources.
package credential

import (
	"fmt"
	"os"
)

const (
	ChannelVariable = "SLACK_CHANNEL"
	TokenVariable   = "SLACK_TOKEN"
)

// Source yields a value and whether it was present.
type Source func() (string, bool)

// NotFoundError means no source supplied Variable.
type NotFoundError struct {
	Variable string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("couldn't find %s: environment variable not found", e.Variable)
}

// Resolve returns the first present value from sources, verbatim.
func Resolve(variable string, sources ...Source) (string, error) {
	for _, source := range sources {
		if value, ok := source(); ok {
			return value, nil
		}
	}
	return "", &NotFoundError{Variable: variable}
}

// Arg is present when the flag was given, even with an empty value.
func Arg(value *string) Source {
	return func() (string, bool) {
		if value == nil {
			return "", false
		}
		return *value, true
	}
}

// Env is present when the variable is set, even to "".
func Env(name string) Source {
	return func() (string, bool) {
		return os.LookupEnv(name)
	}
}

// File is present when the config file carried a non-empty value.
func File(value string) Source {
	return func() (string, bool) {
		return value, value != ""
	}
}

// Credential is the resolved pair for one invocation.
type Credential struct {
	Channel string
	Token   string
}

// Lookup holds the lower-precedence values read from the config file.
type Lookup struct {
	FileChannel string
	FileToken   string
}

// ResolvePair resolves both halves with argument, environment, config file
// precedence.
func ResolvePair(channelArg, tokenArg *string, lookup Lookup) (Credential, error) {
	channel, err := Resolve(ChannelVariable, Arg(channelArg), Env(ChannelVariable), File(lookup.FileChannel))
	if err != nil {
		return Credential{}, err
	}
	token, err := Resolve(TokenVariable, Arg(tokenArg), Env(TokenVariable), File(lookup.FileToken))
	if err != nil {
		return Credential{}, err
	}
	return Credential{Channel: channel, Token: token}, nil
}

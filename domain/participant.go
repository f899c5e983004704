// Package domain contains core concepts of the matching engine.
// This file defines Participant identity and the attribute matching rule.
// No runtime, network, or UI logic should be added here.
package domain

import "fmt"

// Attribute is the categorical trait used to determine matching eligibility.
type Attribute string

const (
	AttributeMale   Attribute = "male"
	AttributeFemale Attribute = "female"
)

// Participant is one connected client, identified by an opaque connection id
// for the duration of its connection. The attribute may be re-declared across
// re-queues; it never survives the connection.
type Participant struct {
	ID        string
	Attribute Attribute
}

// Complement maps an attribute value to the value eligible to be matched
// with it. The boolean is false for values outside the configured space.
type Complement func(Attribute) (Attribute, bool)

// NewComplement builds a symmetric Complement from explicit value pairs.
// Each pair a:b makes a eligible for b and b eligible for a.
func NewComplement(pairs map[Attribute]Attribute) (Complement, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("complement rule needs at least one attribute pair")
	}
	rule := make(map[Attribute]Attribute, len(pairs)*2)
	for a, b := range pairs {
		if a == "" || b == "" {
			return nil, fmt.Errorf("complement rule contains an empty attribute value")
		}
		rule[a] = b
		rule[b] = a
	}
	return func(value Attribute) (Attribute, bool) {
		other, ok := rule[value]
		return other, ok
	}, nil
}

// DefaultComplement pairs male with female, matching the historical behavior.
func DefaultComplement() Complement {
	c, _ := NewComplement(map[Attribute]Attribute{AttributeMale: AttributeFemale})
	return c
}

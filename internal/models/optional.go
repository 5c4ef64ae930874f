package models

import "encoding/json"

// OptionalID is a string identifier that may be absent. The zero value is
// absent; String renders an absent id as "".
type OptionalID struct {
	value string
	set   bool
}

func Some(v string) OptionalID {
	return OptionalID{value: v, set: true}
}

func (o OptionalID) Get() (string, bool) { return o.value, o.set }

func (o OptionalID) IsSet() bool { return o.set }

func (o OptionalID) String() string { return o.value }

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = OptionalID{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*o = Some(s)
	return nil
}

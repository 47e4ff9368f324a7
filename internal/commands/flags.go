package commands

import (
	"strconv"

	"taskboard/internal/service"
)

// optionalString is a string flag that remembers whether it was given, so
// "--title ''" can be told apart from no --title at all.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }
func (o *optionalString) Type() string   { return "string" }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// Ptr returns the value, or nil when the flag was not given.
func (o *optionalString) Ptr() *string {
	if !o.set {
		return nil
	}
	return service.String(o.value)
}

// priorityFlag accepts low, medium or high.
type priorityFlag struct {
	value service.Priority
}

func (p *priorityFlag) String() string { return string(p.value) }
func (p *priorityFlag) Type() string   { return "priority" }

func (p *priorityFlag) Set(s string) error {
	v, err := service.ParsePriority(s)
	if err != nil {
		return err
	}
	p.value = v
	return nil
}

// completedFlag is a tri-state completion filter: unset, true or false.
// "all" resets it.
type completedFlag struct {
	value *bool
}

func (c *completedFlag) String() string {
	if c.value == nil {
		return "all"
	}
	return strconv.FormatBool(*c.value)
}

func (c *completedFlag) Type() string { return "bool|all" }

func (c *completedFlag) Set(s string) error {
	if s == "all" {
		c.value = nil
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	c.value = service.Bool(v)
	return nil
}

// Package errcode provides the basic types and functionalities for hierarchical error codes
// Error code format: MMBBBB (MM = module code 2 digits, BBBB = business code 4 digits)
package errcode

import (
	"fmt"
)

// LayeredError hierarchical error code
// Supports: error chaining, dynamic messages, context data, internationalization (message keys)
type LayeredError struct {
	module string                 // Module name (scope, analyzer, lifecycle, zen)
	code   int                    // Complete error code (MMBBBB, e.g., 100001)
	msgKey string                 // Message key (for internationalization)
	msg    string                 // Default message
	data   map[string]interface{} // context data
	cause  error                  // Original error (error chain)
}

// New Create hierarchical error codes
// moduleCode: Module code (10-99)
// businessCode: Business code (0001-9999)
// module: module name (scope, analyzer, lifecycle, zen)
// msgKey: message key (for internationalization)
// msg: Default message
func New(moduleCode, businessCode int, module, msgKey, msg string) *LayeredError {
	return &LayeredError{
		module: module,
		code:   moduleCode*10000 + businessCode,
		msgKey: msgKey,
		msg:    msg,
		data:   make(map[string]interface{}),
	}
}

// Implement error interface
func (e *LayeredError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Code gets error code
func (e *LayeredError) Code() int {
	return e.code
}

// Module Get module name
func (e *LayeredError) Module() string {
	return e.module
}

// MsgKey retrieves the message key (for internationalization)
func (e *LayeredError) MsgKey() string {
	return e.msgKey
}

// Get error message
func (e *LayeredError) Message() string {
	return e.msg
}

// Retrieve context data
func (e *LayeredError) Data() map[string]interface{} {
	return e.data
}

// Cause get original error
func (e *LayeredError) Cause() error {
	return e.cause
}

// Unwrap supports Go 1.13+ error chains
func (e *LayeredError) Unwrap() error {
	return e.cause
}

// Is matches by error code, so clones produced by WithMsg/WithData/Wrap
// still satisfy errors.Is against the registered sentinel
func (e *LayeredError) Is(target error) bool {
	t, ok := target.(*LayeredError)
	return ok && t.code == e.code
}

// WithMsg replace error message (return new instance, do not modify original instance)
func (e *LayeredError) WithMsg(msg string) *LayeredError {
	clone := *e
	clone.msg = msg
	return &clone
}

// WithMsgf format replacement error message (return new instance)
func (e *LayeredError) WithMsgf(format string, args ...interface{}) *LayeredError {
	clone := *e
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// WithData add single context data (return new instance)
func (e *LayeredError) WithData(key string, value interface{}) *LayeredError {
	clone := *e
	clone.data = e.cloneData()
	clone.data[key] = value
	return &clone
}

// WithFields batch add context data (return new instance)
func (e *LayeredError) WithFields(fields map[string]interface{}) *LayeredError {
	clone := *e
	clone.data = e.cloneData()
	for k, v := range fields {
		clone.data[k] = v
	}
	return &clone
}

// Wrap Wraps the original error (returns a new instance)
func (e *LayeredError) Wrap(cause error) *LayeredError {
	if cause == nil {
		return e
	}
	clone := *e
	clone.cause = cause
	return &clone
}

// Wrapf wraps the original error and formats the message (returns a new instance)
func (e *LayeredError) Wrapf(cause error, format string, args ...interface{}) *LayeredError {
	if cause == nil {
		return e.WithMsgf(format, args...)
	}
	clone := *e
	clone.msg = fmt.Sprintf(format, args...)
	clone.cause = cause
	return &clone
}

func (e *LayeredError) cloneData() map[string]interface{} {
	data := make(map[string]interface{}, len(e.data)+1)
	for k, v := range e.data {
		data[k] = v
	}
	return data
}

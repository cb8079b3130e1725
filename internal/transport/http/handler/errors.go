package handler

const (
	errInternalServer     = "Internal server error"
	errSectionNotFound    = "Section not found"
	errTaskNotFound       = "Task not found"
	errTopologyMismatch   = "Topology already bootstrapped or references unknown names"
	errInvalidRequestBody = "Request body is invalid"
)

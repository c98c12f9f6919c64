// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import "fmt"

// getParams extracts parameters from a normalized JSON-RPC request.
func getParams(req map[string]any, method string) (map[string]any, error) {
	p, ok := req["params"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: invalid params", method)
	}
	return p, nil
}

// getStringParam extracts a required string parameter from JSON-RPC params.
func getStringParam(params map[string]any, method, key string) (string, error) {
	v, ok := params[key].(string)
	if !ok {
		return "", fmt.Errorf("%s: invalid params, missing %q", method, key)
	}
	return v, nil
}

// getOptionalStringParam extracts an optional string parameter. A missing or
// null value yields an empty string without error.
func getOptionalStringParam(params map[string]any, method, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: invalid params, %q must be a string", method, key)
	}
	return s, nil
}

// getMapParam extracts an object parameter from JSON-RPC params. A missing or
// null value yields an empty map, so tool calls without arguments stay valid.
func getMapParam(params map[string]any, method, key string) (map[string]any, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: invalid params, %q must be an object", method, key)
	}
	return m, nil
}

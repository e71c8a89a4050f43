package handler

import "net/url"

// readQueryList collects every value of key, including the bracketed
// array form (key[]=a&key[]=b) sent by form-encoding clients.
func readQueryList(query url.Values, key string) []string {
	var values []string
	values = append(values, query[key]...)
	values = append(values, query[key+"[]"]...)
	return values
}

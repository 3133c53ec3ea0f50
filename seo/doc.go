// Package seo turns a model reply into named sections, styled headings and a
// heuristic quality score. Everything here is a pure function of its inputs.
package seo

// Package web serves locale-gated pages and the locale files behind them.
//
// Every request passes through i18nhttp.Middleware so pages, placeholders,
// and initial props hooks agree on one locale. Pages that declare initial
// props load their messages while the response is built; the rest render a
// polling placeholder until the background load finishes.
package web

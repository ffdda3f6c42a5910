// Package timezone pins every clock reading and date conversion to the hotel's
// configured zone (APP_TIMEZONE, an IANA name such as "Asia/Jakarta").
//
// Timestamps such as created_at are read with Now and rendered with Format.
// Stay dates are calendar days: DateOf returns midnight UTC of the
// local date, which is how DATE columns come back from the driver, so that
// check-in and check-out comparisons never drift across a day boundary.
//
// Services that apply date rules take a Clock instead of calling Now
// directly, which lets tests pin the current day with FixedClock.
package timezone

// Package httputil provides HTTP helpers shared by the inventory API client.
//
// [Retry] re-runs an operation while it fails with a [RetryableError],
// doubling the delay between attempts:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Errors that are not marked retryable (4xx responses, decode failures) end
// the loop immediately. Cancelling ctx interrupts the wait between attempts.
package httputil

package throttle

import "time"

// BucketConf sizes one throttle group. The api registers "auth" for
// sign-in/sign-up and "pdf" for document rendering; throttle_buckets in the
// core config overrides either.
type BucketConf struct {
	Burst     int           // requests a caller may make back to back
	Increment int           // tokens returned per Period
	Period    time.Duration // refill interval
}

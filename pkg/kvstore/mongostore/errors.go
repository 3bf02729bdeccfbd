package mongostore

import "errors"

var ErrFailedToConnect = errors.New("mongostore: failed to connect to mongo")

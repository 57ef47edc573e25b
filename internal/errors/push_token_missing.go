package errors

var ErrPushTokenMissing = BadRequest("user does not have a push token registered")

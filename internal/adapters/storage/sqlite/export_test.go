package sqlite

var HandleError = handleError

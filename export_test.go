package bfront

var SplitMethodPattern = splitMethodPattern

package notice_sdk

/* @title           Notice SDK API
@version         1.0
@description     Notice SDK API documentation
@host            localhost:6789
@BasePath        /api/v1
@securityDefinitions.apikey BearerAuth
@in header
@name Authorization
*/

/* This file is now split into:
- handler_notice.go
- handler_feed.go
- handler_dojo.go
- handler_member.go
*/

package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "TA Proctoring API",
        "description": "Proctor selection and seat swaps for exam scheduling",
        "version": "1.0.0"
    },
    "basePath": "{{.BasePath}}",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Proctoring",
            "description": "Candidate ranking and proctor assignment"
        },
        {
            "name": "Swaps",
            "description": "Peer and staff seat swaps"
        },
        {
            "name": "System",
            "description": "Probes and metrics"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is unreachable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/proctoring/candidate-tas/{exam_id}": {
            "get": {
                "tags": [
                    "Proctoring"
                ],
                "summary": "List candidate proctors for an exam",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Exam ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/CandidateListResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                }
            }
        },
        "/proctoring/automatic-assignment/{exam_id}": {
            "post": {
                "tags": [
                    "Proctoring"
                ],
                "summary": "Choose proctors automatically",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Exam ID"
                    },
                    {
                        "name": "commit",
                        "in": "query",
                        "type": "boolean",
                        "description": "Persist the selection"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/AutomaticAssignmentResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                }
            }
        },
        "/proctoring/confirm-assignment/{exam_id}": {
            "post": {
                "tags": [
                    "Proctoring"
                ],
                "summary": "Confirm a staff-chosen proctor list",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Exam ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ConfirmAssignmentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ConfirmAssignmentResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/proctoring/assignments/{exam_id}": {
            "get": {
                "tags": [
                    "Proctoring"
                ],
                "summary": "Get the confirmed proctors of an exam",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "exam_id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Exam ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Assignment"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                }
            }
        },
        "/proctoring/history": {
            "get": {
                "tags": [
                    "Proctoring"
                ],
                "summary": "List confirmed assignments newest first",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/AssignmentHistoryResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                }
            }
        },
        "/swap/candidates/{assignment_id}": {
            "get": {
                "tags": [
                    "Swaps"
                ],
                "summary": "List replacement TAs for a seat",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "assignment_id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Seat ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SwapCandidatesResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                }
            }
        },
        "/swap/request": {
            "post": {
                "tags": [
                    "Swaps"
                ],
                "summary": "Ask another TA to take over a seat",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SwapRequestPayload"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/SwapRecordResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/swap/respond/{swap_id}": {
            "post": {
                "tags": [
                    "Swaps"
                ],
                "summary": "Accept or reject a pending swap request",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "swap_id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Swap request ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SwapResponsePayload"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SwapRecordResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/swap/staff-swap/{assignment_id}": {
            "post": {
                "tags": [
                    "Swaps"
                ],
                "summary": "Move a seat to another TA immediately",
                "description": "An open peer request on the seat is rejected in the same transaction.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "assignment_id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Seat ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/StaffSwapPayload"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SwapRecordResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/swap/my": {
            "get": {
                "tags": [
                    "Swaps"
                ],
                "summary": "List swap requests sent or received by the caller",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SwapListResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                }
            }
        },
        "/swap/all": {
            "get": {
                "tags": [
                    "Swaps"
                ],
                "summary": "List proctoring seats",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "order_by",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "date",
                            "course"
                        ]
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SeatListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                }
            }
        },
        "/swap/admin-history": {
            "get": {
                "tags": [
                    "Swaps"
                ],
                "summary": "List every swap newest first",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SwapListResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                }
            }
        },
        "/swap/history/{assignment_id}": {
            "get": {
                "tags": [
                    "Swaps"
                ],
                "summary": "List the swaps of one seat oldest first",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "assignment_id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Seat ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SwapListResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/Failure"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "Failure": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "status": {
                    "type": "string"
                },
                "kind": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "details": {
                    "type": "object"
                }
            }
        },
        "OverrideInfo": {
            "type": "object",
            "properties": {
                "consecutive_overridden": {
                    "type": "boolean"
                },
                "ms_phd_overridden": {
                    "type": "boolean"
                },
                "department_overridden": {
                    "type": "boolean"
                }
            }
        },
        "CandidateTA": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "workload": {
                    "type": "number"
                },
                "program": {
                    "type": "string",
                    "enum": [
                        "MS",
                        "PHD"
                    ]
                },
                "department": {
                    "type": "string"
                },
                "assignable": {
                    "type": "boolean"
                },
                "reason": {
                    "type": "string"
                },
                "penalty": {
                    "type": "number"
                },
                "already_assigned": {
                    "type": "boolean"
                }
            }
        },
        "CandidateListResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "tas": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/CandidateTA"
                    }
                }
            }
        },
        "AutomaticAssignmentResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "assigned_tas": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "override_info": {
                    "$ref": "#/definitions/OverrideInfo"
                },
                "committed": {
                    "type": "boolean"
                }
            }
        },
        "ConfirmAssignmentRequest": {
            "type": "object",
            "properties": {
                "assigned_tas": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "format": "email"
                    }
                }
            },
            "required": [
                "assigned_tas"
            ]
        },
        "ConfirmAssignmentResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "assigned_tas": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "override_info": {
                    "$ref": "#/definitions/OverrideInfo"
                }
            }
        },
        "Seat": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "exam_id": {
                    "type": "string"
                },
                "ta_email": {
                    "type": "string"
                },
                "position": {
                    "type": "integer"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "Assignment": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "exam_id": {
                    "type": "string"
                },
                "mode": {
                    "type": "string",
                    "enum": [
                        "automatic",
                        "manual"
                    ]
                },
                "created_by": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "seats": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Seat"
                    }
                },
                "consecutive_overridden": {
                    "type": "boolean"
                },
                "ms_phd_overridden": {
                    "type": "boolean"
                },
                "department_overridden": {
                    "type": "boolean"
                }
            }
        },
        "AssignmentHistoryResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "assignments": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/Assignment"
                    }
                }
            }
        },
        "SwapCandidate": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "workload": {
                    "type": "number"
                }
            }
        },
        "SwapIneligible": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "SwapCandidatesResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "assignable": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SwapCandidate"
                    }
                },
                "unassignable": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SwapIneligible"
                    }
                }
            }
        },
        "SwapRequestPayload": {
            "type": "object",
            "properties": {
                "assignment_id": {
                    "type": "string"
                },
                "target_ta_email": {
                    "type": "string",
                    "format": "email"
                }
            },
            "required": [
                "assignment_id",
                "target_ta_email"
            ]
        },
        "SwapResponsePayload": {
            "type": "object",
            "properties": {
                "decision": {
                    "type": "string",
                    "enum": [
                        "accept",
                        "reject"
                    ]
                }
            },
            "required": [
                "decision"
            ]
        },
        "StaffSwapPayload": {
            "type": "object",
            "properties": {
                "new_ta": {
                    "type": "string",
                    "format": "email"
                }
            },
            "required": [
                "new_ta"
            ]
        },
        "SwapRequest": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "assignment_id": {
                    "type": "string"
                },
                "exam_id": {
                    "type": "string"
                },
                "kind": {
                    "type": "string",
                    "enum": [
                        "peer",
                        "staff"
                    ]
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "pending",
                        "accepted",
                        "rejected",
                        "staff"
                    ]
                },
                "requested_by": {
                    "type": "string"
                },
                "requested_by_staff": {
                    "type": "boolean"
                },
                "previous_ta": {
                    "type": "string"
                },
                "target_ta": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "responded_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "SwapDetail": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "assignment_id": {
                    "type": "string"
                },
                "exam_id": {
                    "type": "string"
                },
                "kind": {
                    "type": "string",
                    "enum": [
                        "peer",
                        "staff"
                    ]
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "pending",
                        "accepted",
                        "rejected",
                        "staff"
                    ]
                },
                "requested_by": {
                    "type": "string"
                },
                "requested_by_staff": {
                    "type": "boolean"
                },
                "previous_ta": {
                    "type": "string"
                },
                "target_ta": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "responded_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "course_codes": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "department": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "start_time": {
                    "type": "string"
                },
                "end_time": {
                    "type": "string"
                }
            }
        },
        "SwapRecordResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "swap": {
                    "$ref": "#/definitions/SwapRequest"
                }
            }
        },
        "SwapListResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "swaps": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SwapDetail"
                    }
                }
            }
        },
        "SeatDetail": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "exam_id": {
                    "type": "string"
                },
                "ta_email": {
                    "type": "string"
                },
                "position": {
                    "type": "integer"
                },
                "course_codes": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "department": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "start_time": {
                    "type": "string"
                },
                "end_time": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "ta_department": {
                    "type": "string"
                }
            }
        },
        "SeatListResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "seats": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SeatDetail"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds the exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "TA Proctoring API",
	Description:      "Proctor selection and seat swaps for exam scheduling",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

/*
Package template expands variable references in agent prompt text.

Question nodes store each collected answer under a variableName. Prompt,
greeting and end-call text can refer to those answers:

	Thanks {{first_name}}, I have you down for ${appointment_date}.

Expand substitutes values; Variables lists the names a text refers to,
which the editor's linter checks against the variables question nodes
actually define.

# Missing Variables

  - MissingKeep (default): the placeholder stays as written
  - MissingEmpty: the placeholder is removed
  - MissingError: the placeholder stays and an *UndefinedVariableError is returned
*/
package template
